package session

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"mural/editor"
)

// dispatch routes one inbound relay message by type. Malformed payloads and
// unknown types are logged and dropped; dispatch never fails.
func (c *Client) dispatch(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Warn("dropping malformed message", "err", err)
		return
	}

	switch env.Type {
	case MsgStateSync:
		var msg StateSyncMessage
		if !c.decode(data, &msg) {
			return
		}
		c.mu.Lock()
		c.clientCount = msg.ClientCount
		c.presence = make(map[string]*RemotePresence)
		c.mu.Unlock()
		c.ed.ReplaceDocument(msg.Elements, msg.Connections)

	case MsgElementUpdated:
		if c.isSelf(env) {
			return
		}
		var msg ElementUpdatedMessage
		if !c.decode(data, &msg) {
			return
		}
		c.ed.ApplyRemoteElementUpdate(msg.ElementID, msg.Updates)

	case MsgConnectionUpdated:
		if c.isSelf(env) {
			return
		}
		var msg ConnectionUpdatedMessage
		if !c.decode(data, &msg) {
			return
		}
		c.ed.ApplyRemoteConnectionUpdate(msg.ConnectionID, msg.Updates)

	case MsgClientUpdate:
		var msg ClientUpdateMessage
		if !c.decode(data, &msg) {
			return
		}
		c.mu.Lock()
		c.clientCount = msg.ClientCount
		c.mu.Unlock()

	case MsgCursorUpdate:
		if c.isSelf(env) {
			return
		}
		var msg CursorUpdateMessage
		if !c.decode(data, &msg) {
			return
		}
		c.mu.Lock()
		p := c.presenceFor(env.ClientID)
		p.Cursor = msg.Position
		p.HasCursor = true
		c.mu.Unlock()

	case MsgSelectionUpdate:
		if c.isSelf(env) {
			return
		}
		var msg SelectionUpdateMessage
		if !c.decode(data, &msg) {
			return
		}
		c.mu.Lock()
		c.presenceFor(env.ClientID).Selection = msg.SelectedElements
		c.mu.Unlock()

	case MsgChatMessage:
		var msg ChatMessagePayload
		if !c.decode(data, &msg) {
			return
		}
		if c.cfg.Chat != nil {
			c.cfg.Chat.ChatMessage(msg.Username, msg.Message)
		}

	case MsgError:
		var msg ErrorMessage
		if !c.decode(data, &msg) {
			return
		}
		c.notify(editor.NoticeError, msg.Message)

	case MsgPongRequired:
		c.sendPong()

	default:
		c.log.Warn("ignoring unknown message type", "type", string(env.Type))
	}
}

func (c *Client) decode(data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.log.Warn("dropping malformed message", "err", err)
		return false
	}
	return true
}

func (c *Client) isSelf(env Envelope) bool {
	return env.ClientID == c.cfg.ClientID
}

// presenceFor returns the presence entry for a client, creating it if
// needed. Caller holds c.mu.
func (c *Client) presenceFor(clientID string) *RemotePresence {
	p, ok := c.presence[clientID]
	if !ok {
		p = &RemotePresence{}
		c.presence[clientID] = p
	}
	return p
}

// sendPong answers a liveness probe immediately, bypassing the queue. The
// probe arrived on an open connection, so a direct write is safe.
func (c *Client) sendPong() {
	data, err := json.Marshal(c.envelope(MsgPong))
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Warn("pong failed", "err", err)
	}
}
