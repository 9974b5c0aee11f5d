package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"mural/diagram"
	"mural/editor"
	"mural/export"
	"mural/logger"
	"mural/session"
)

func main() {
	var (
		file      = flag.String("f", "", "document JSON file to load")
		formatArg = flag.String("format", "mermaid", "code format: mermaid or d2")
		out       = flag.String("o", "", "write generated code to this file instead of stdout")
		relay     = flag.String("relay", "", "relay websocket URL; enables live session mode")
		sessionID = flag.String("session", "", "session identifier to join")
	)
	flag.Parse()

	log := logger.New()

	format, err := export.ParseFormat(*formatArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	gen, err := export.NewExporter(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ed := editor.New()
	ed.SetNoticeHandler(func(n editor.Notice) {
		fmt.Fprintf(os.Stderr, "%s\n", n.Message)
	})
	if *file != "" {
		doc, err := loadDocumentFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to load document: %v\n", err)
			os.Exit(1)
		}
		ed.Document().Restore(doc)
	}
	ed.SetGenerator(gen)

	if *relay == "" {
		if err := writeCode(ed.Code(), *out); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	client := session.New(ed, session.Config{
		RelayURL:  *relay,
		SessionID: *sessionID,
		Logger:    log,
	})
	client.Connect()
	log.Info("session started", "relay", *relay)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	client.Disconnect()
	if *file != "" {
		if err := saveDocumentFile(*file, ed.Document()); err != nil {
			log.Error("failed to save document", "err", err)
		}
	}
}

func loadDocumentFile(filename string) (*diagram.Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc := diagram.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func saveDocumentFile(filename string, doc *diagram.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func writeCode(code, out string) error {
	if out == "" {
		fmt.Print(code)
		return nil
	}
	return os.WriteFile(out, []byte(code), 0644)
}
