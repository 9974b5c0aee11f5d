package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mural/diagram"
	"mural/editor"
)

// ConnState is the session connection lifecycle state.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
	StateReconnecting
	StateReconnectFailed
)

// String returns the state name for display.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateReconnecting:
		return "reconnecting"
	case StateReconnectFailed:
		return "reconnect_failed"
	default:
		return "unknown"
	}
}

// ChatSink receives inbound chat messages. The chat surface itself is
// outside the editor core.
type ChatSink interface {
	ChatMessage(username, message string)
}

// RemotePresence is another client's shared cursor and selection.
type RemotePresence struct {
	Cursor    diagram.Point
	HasCursor bool
	Selection []string
}

// Config holds session client parameters.
type Config struct {
	RelayURL  string // websocket URL of the relay, without session query
	SessionID string
	ClientID  string // generated when empty

	BaseDelay      time.Duration // reconnect backoff base, default 1s
	MaxAttempts    int           // reconnect attempts before giving up, default 5
	CursorInterval time.Duration // cursor update throttle window, default 100ms

	Logger   *slog.Logger
	Chat     ChatSink
	OnNotice func(editor.Notice)
	// Dispatch runs inbound handlers; defaults to a direct call. An app with
	// its own event loop can marshal handlers onto it here.
	Dispatch func(fn func())
}

// Client manages one relay connection for an editor. It implements
// editor.Broadcaster, so local mutations fan out to peers, and applies
// inbound updates through the editor's remote-merge path, bypassing history.
type Client struct {
	cfg Config
	ed  *editor.Editor
	log *slog.Logger

	// injectable for tests
	dial     func(url string) (*websocket.Conn, error)
	schedule func(d time.Duration, fn func()) (cancel func())
	now      func() time.Time

	mu            sync.Mutex
	state         ConnState
	conn          *websocket.Conn
	queue         [][]byte
	attempts      int
	cancelRetry   func()
	explicitClose bool
	clientCount   int
	presence      map[string]*RemotePresence

	cursorLast    time.Time
	cursorPending *diagram.Point
	cursorArmed   bool
}

// New creates a session client bound to an editor. The editor's broadcaster
// is wired to the client.
func New(ed *editor.Editor, cfg Config) *Client {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.CursorInterval <= 0 {
		cfg.CursorInterval = 100 * time.Millisecond
	}
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(fn func()) { fn() }
	}
	c := &Client{
		cfg:      cfg,
		ed:       ed,
		log:      cfg.Logger.With("session", cfg.SessionID, "client", cfg.ClientID),
		state:    StateClosed,
		presence: make(map[string]*RemotePresence),
		now:      time.Now,
	}
	c.dial = func(url string) (*websocket.Conn, error) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		return conn, err
	}
	c.schedule = func(d time.Duration, fn func()) func() {
		t := time.AfterFunc(d, fn)
		return func() { t.Stop() }
	}
	ed.SetBroadcaster(c)
	return c
}

// ClientID returns this client's identifier.
func (c *Client) ClientID() string { return c.cfg.ClientID }

// State returns the connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ClientCount returns the relay-reported number of clients in the session.
func (c *Client) ClientCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientCount
}

// Presence returns a copy of the remote presence map.
func (c *Client) Presence() map[string]RemotePresence {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]RemotePresence, len(c.presence))
	for id, p := range c.presence {
		cp := *p
		cp.Selection = append([]string(nil), p.Selection...)
		out[id] = cp
	}
	return out
}

// QueuedMessages returns the number of outbound messages waiting for an open
// connection.
func (c *Client) QueuedMessages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Client) relayURL() string {
	return fmt.Sprintf("%s?session=%s&client=%s", c.cfg.RelayURL, c.cfg.SessionID, c.cfg.ClientID)
}

// Connect dials the relay. A pending scheduled retry is cancelled first: an
// explicit connect supersedes it.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.cancelRetry != nil {
		c.cancelRetry()
		c.cancelRetry = nil
	}
	if c.state == StateOpen {
		c.mu.Unlock()
		return
	}
	if c.attempts == 0 {
		c.state = StateConnecting
	}
	c.explicitClose = false
	url := c.relayURL()
	c.mu.Unlock()

	conn, err := c.dial(url)
	if err != nil {
		c.log.Warn("relay dial failed", "err", err)
		c.scheduleReconnect()
		return
	}
	c.onOpen(conn)
}

// onOpen flushes the outbound queue FIFO and starts the read loop.
func (c *Client) onOpen(conn *websocket.Conn) {
	c.mu.Lock()
	reconnected := c.attempts > 0
	c.conn = conn
	c.state = StateOpen
	c.attempts = 0
	pending := c.queue
	c.queue = flushPending(pending, func(data []byte) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	})
	if len(c.queue) > 0 {
		c.log.Warn("flush interrupted", "remaining", len(c.queue))
	}
	c.mu.Unlock()

	if reconnected {
		c.notify(editor.NoticeInfo, "reconnected")
	} else {
		c.notify(editor.NoticeInfo, "connected")
	}
	go c.readLoop(conn)
}

// flushPending writes queued messages FIFO and stops at the first failure,
// returning the unsent remainder in order. Skipping past a failed message
// would let later messages overtake it.
func flushPending(pending [][]byte, write func([]byte) error) [][]byte {
	for i, data := range pending {
		if err := write(data); err != nil {
			return append([][]byte(nil), pending[i:]...)
		}
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(err)
			return
		}
		c.cfg.Dispatch(func() { c.dispatch(data) })
	}
}

// handleClose enters reconnecting with exponential backoff, or the terminal
// reconnect_failed state once the attempts are exhausted. Local editing
// keeps working either way; outbound messages keep queueing.
func (c *Client) handleClose(err error) {
	c.mu.Lock()
	c.conn = nil
	if c.explicitClose {
		c.state = StateClosed
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.log.Warn("relay connection lost", "err", err)
	c.scheduleReconnect()
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.explicitClose {
		c.state = StateClosed
		c.mu.Unlock()
		return
	}
	if c.attempts >= c.cfg.MaxAttempts {
		c.state = StateReconnectFailed
		c.mu.Unlock()
		c.notify(editor.NoticeError, "connection to session lost; edits stay local")
		return
	}
	delay := c.cfg.BaseDelay << c.attempts
	c.attempts++
	attempt := c.attempts
	c.state = StateReconnecting
	c.mu.Unlock()
	c.log.Info("reconnect scheduled", "attempt", attempt, "delay", delay)
	cancel := c.schedule(delay, c.Connect)
	c.mu.Lock()
	c.cancelRetry = cancel
	c.mu.Unlock()
}

// Disconnect closes the connection and cancels any pending retry.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.explicitClose = true
	if c.cancelRetry != nil {
		c.cancelRetry()
		c.cancelRetry = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateClosed
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// send marshals and transmits a message, queueing it when the connection is
// not open.
func (c *Client) send(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal failed", "err", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen || c.conn == nil {
		c.queue = append(c.queue, data)
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Warn("send failed, queueing", "err", err)
		c.queue = append(c.queue, data)
	}
}

func (c *Client) envelope(t MessageType) Envelope {
	return Envelope{Type: t, ClientID: c.cfg.ClientID}
}

// ElementUpdated implements editor.Broadcaster.
func (c *Client) ElementUpdated(id string, u diagram.ElementUpdate) {
	c.send(ElementUpdatedMessage{
		Envelope:  c.envelope(MsgElementUpdated),
		ElementID: id,
		Updates:   u,
	})
}

// ConnectionUpdated implements editor.Broadcaster.
func (c *Client) ConnectionUpdated(id string, u diagram.ConnectionUpdate) {
	c.send(ConnectionUpdatedMessage{
		Envelope:     c.envelope(MsgConnectionUpdated),
		ConnectionID: id,
		Updates:      u,
	})
}

// SelectionChanged implements editor.Broadcaster.
func (c *Client) SelectionChanged(ids []string) {
	c.send(SelectionUpdateMessage{
		Envelope:         c.envelope(MsgSelectionUpdate),
		SelectedElements: ids,
	})
}

// SendChat sends a chat line to the session.
func (c *Client) SendChat(username, message string) {
	c.send(ChatMessagePayload{
		Envelope: c.envelope(MsgChatMessage),
		Message:  message,
		Username: username,
	})
}

func (c *Client) notify(level editor.NoticeLevel, msg string) {
	if c.cfg.OnNotice != nil {
		c.cfg.OnNotice(editor.Notice{Level: level, Message: msg})
		return
	}
	c.log.Info(msg)
}
