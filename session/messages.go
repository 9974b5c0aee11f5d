// Package session manages one client's live connection to the relay:
// lifecycle with reconnect backoff, outbound queueing while offline, typed
// inbound dispatch, and presence sharing.
package session

import (
	"mural/diagram"
)

// MessageType discriminates relay messages.
type MessageType string

const (
	MsgStateSync         MessageType = "state_sync"
	MsgElementUpdated    MessageType = "element_updated"
	MsgConnectionUpdated MessageType = "connection_updated"
	MsgClientUpdate      MessageType = "client_update"
	MsgCursorUpdate      MessageType = "cursor_update"
	MsgSelectionUpdate   MessageType = "selection_update"
	MsgChatMessage       MessageType = "chat_message"
	MsgError             MessageType = "error"
	MsgPongRequired      MessageType = "pong_required"
	MsgPong              MessageType = "pong"
)

// Envelope is the header carried by every relay message. The concrete
// payload is decoded after the type is known.
type Envelope struct {
	Type     MessageType `json:"type"`
	ClientID string      `json:"client_id,omitempty"`
}

// StateSyncMessage replaces the entire local document.
type StateSyncMessage struct {
	Envelope
	Elements    []diagram.Element    `json:"elements"`
	Connections []diagram.Connection `json:"connections"`
	ClientCount int                  `json:"client_count"`
}

// ElementUpdatedMessage carries a partial (or, for new elements, full)
// element field set.
type ElementUpdatedMessage struct {
	Envelope
	ElementID string                `json:"elementId"`
	Updates   diagram.ElementUpdate `json:"updates"`
}

// ConnectionUpdatedMessage carries a partial connection field set.
type ConnectionUpdatedMessage struct {
	Envelope
	ConnectionID string                   `json:"connectionId"`
	Updates      diagram.ConnectionUpdate `json:"updates"`
}

// ClientUpdateMessage announces the session's client count.
type ClientUpdateMessage struct {
	Envelope
	ClientCount int `json:"client_count"`
}

// CursorUpdateMessage shares a client's pointer position.
type CursorUpdateMessage struct {
	Envelope
	Position diagram.Point `json:"position"`
}

// SelectionUpdateMessage shares a client's selected element ids.
type SelectionUpdateMessage struct {
	Envelope
	SelectedElements []string `json:"selectedElements"`
}

// ChatMessagePayload carries a chat line between clients.
type ChatMessagePayload struct {
	Envelope
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ErrorMessage surfaces a relay-side error to the user.
type ErrorMessage struct {
	Envelope
	Message string `json:"message"`
}
