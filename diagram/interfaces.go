package diagram

// Renderer turns generated diagram text into graphic output. Implementations
// live outside the core; the editor only hands text across this boundary.
type Renderer interface {
	// Render produces graphic output for the generated text.
	Render(code string, opts RenderOptions) ([]byte, error)
}

// RenderOptions selects theme and output format for a render call.
type RenderOptions struct {
	Theme  string
	Format string
}

// ValidationResult is the outcome of checking generated text.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Validator checks generated diagram text for syntax problems. Validation
// failures never block further local mutation.
type Validator interface {
	Validate(code string) ValidationResult
}

// Persister saves or exports the current document and its generated text.
// Calls are fire-and-forget from the editor's perspective.
type Persister interface {
	Persist(doc *Document, code string) error
}
