package session

import (
	"time"

	"mural/diagram"
)

// SendCursor shares the local pointer position. Updates are coalesced to at
// most one message per CursorInterval regardless of input event rate: the
// first update in a window goes out immediately, later ones replace a
// pending value flushed when the window ends.
func (c *Client) SendCursor(p diagram.Point) {
	c.mu.Lock()
	now := c.now()
	if !c.cursorArmed && now.Sub(c.cursorLast) >= c.cfg.CursorInterval {
		c.cursorLast = now
		c.mu.Unlock()
		c.sendCursor(p)
		return
	}
	c.cursorPending = &p
	arm := false
	var wait time.Duration
	if !c.cursorArmed {
		c.cursorArmed = true
		arm = true
		wait = c.cfg.CursorInterval - now.Sub(c.cursorLast)
	}
	c.mu.Unlock()
	if arm {
		c.schedule(wait, c.flushCursor)
	}
}

func (c *Client) flushCursor() {
	c.mu.Lock()
	p := c.cursorPending
	c.cursorPending = nil
	c.cursorArmed = false
	c.cursorLast = c.now()
	c.mu.Unlock()
	if p != nil {
		c.sendCursor(*p)
	}
}

func (c *Client) sendCursor(p diagram.Point) {
	c.send(CursorUpdateMessage{
		Envelope: c.envelope(MsgCursorUpdate),
		Position: p,
	})
}
