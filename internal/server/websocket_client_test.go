package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialRaw starts a server that runs handle on the upgraded connection and
// returns a client connected to it.
func dialRaw(t *testing.T, handle func(conn *websocket.Conn)) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketClient_ReadCommandSkipsBlankFrames(t *testing.T) {
	conn := dialRaw(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(""))
		conn.WriteMessage(websocket.TextMessage, []byte("   "))
		conn.WriteMessage(websocket.TextMessage, []byte("\n\n"))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"attack","attack_type":"power"}`))
		time.Sleep(100 * time.Millisecond)
	})

	cmd, err := NewWebSocketClient(conn).ReadCommand()
	if err != nil {
		t.Fatalf("ReadCommand failed: %v", err)
	}
	if cmd.Action != "attack" || cmd.AttackType != "power" {
		t.Errorf("ReadCommand() = %+v, want power attack", cmd)
	}
}

func TestWebSocketClient_ReadCommandMalformed(t *testing.T) {
	conn := dialRaw(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("attack!"))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"skill":"vitality"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"state"}`))
		time.Sleep(100 * time.Millisecond)
	})
	client := NewWebSocketClient(conn)

	for i := 0; i < 2; i++ {
		if _, err := client.ReadCommand(); !errors.Is(err, ErrMalformedCommand) {
			t.Errorf("frame %d: error = %v, want ErrMalformedCommand", i+1, err)
		}
	}
	cmd, err := client.ReadCommand()
	if err != nil || cmd.Action != "state" {
		t.Errorf("ReadCommand() after bad frames = %+v, %v", cmd, err)
	}
}

func TestWebSocketClient_Send(t *testing.T) {
	received := make(chan string, 1)
	conn := dialRaw(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(msg)
	})

	err := NewWebSocketClient(conn).Send(Message{
		Type:   TypeResult,
		Result: &Result{Action: "save", OK: true},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case msg := <-received:
		want := `{"type":"result","result":{"action":"save","ok":true}}`
		if strings.TrimSpace(msg) != want {
			t.Errorf("received %s, want %s", msg, want)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestWebSocketClient_RemoteAddr(t *testing.T) {
	done := make(chan struct{})
	conn := dialRaw(t, func(*websocket.Conn) { <-done })
	defer close(done)

	if addr := NewWebSocketClient(conn).RemoteAddr(); addr == "" {
		t.Error("RemoteAddr should not be empty")
	}
}
