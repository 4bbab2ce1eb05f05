package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/idlerpg/internal/engine"
)

// ErrMalformedCommand is returned by ReadCommand for a frame that is not a
// command object. The connection stays usable.
var ErrMalformedCommand = errors.New("malformed command")

const writeWait = 10 * time.Second

// Command is one request from a browser client.
type Command struct {
	Action     string `json:"action"`
	AttackType string `json:"attack_type,omitempty"`
	Consumable string `json:"consumable,omitempty"`
	Skill      string `json:"skill,omitempty"`
	Item       string `json:"item,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Location   string `json:"location,omitempty"`
	Raid       string `json:"raid,omitempty"`
	Step       string `json:"step,omitempty"`
}

// MessageType tags a frame sent to the client.
type MessageType string

const (
	TypeResult MessageType = "result"
	TypeEvent  MessageType = "event"
	TypeState  MessageType = "state"
)

// Result answers one Command.
type Result struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Message is one frame sent to the client. Exactly one of Result, Event
// and State is set, matching Type.
type Message struct {
	Type   MessageType   `json:"type"`
	Result *Result       `json:"result,omitempty"`
	Event  *engine.Event `json:"event,omitempty"`
	State  *engine.View  `json:"state,omitempty"`
}

// WebSocketClient wraps a browser connection speaking JSON frames.
type WebSocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writers
}

// NewWebSocketClient creates a new WebSocketClient from a WebSocket connection.
func NewWebSocketClient(conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{conn: conn}
}

// ReadCommand blocks until the next command arrives. Blank frames are
// skipped.
func (c *WebSocketClient) ReadCommand() (Command, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Command{}, err
		}
		message = bytes.TrimSpace(message)
		if len(message) == 0 {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
		}
		if cmd.Action == "" {
			return Command{}, fmt.Errorf("%w: missing action", ErrMalformedCommand)
		}
		return cmd, nil
	}
}

// Send writes one frame. Safe for concurrent use.
func (c *WebSocketClient) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Close closes the WebSocket connection.
func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
