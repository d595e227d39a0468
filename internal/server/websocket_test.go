package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) StateMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var st StateMessage
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return st
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) StateMessage {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	return readState(t, conn)
}

func TestWebSocket_InitialState(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts.URL)

	st := readState(t, conn)
	if st.Session == "" {
		t.Error("initial state has no session id")
	}
	if st.Mode != "text" || st.Payload != "" || st.Exportable || st.SVG != "" {
		t.Errorf("initial state = %+v, want empty text form", st)
	}
}

func TestWebSocket_ModeSwitchKeepsValues(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts.URL)
	first := readState(t, conn)

	send(t, conn, ClientMessage{Op: OpMode, Value: "wifi"})
	st := send(t, conn, ClientMessage{Op: OpSet, Field: "ssid", Value: "A"})
	if st.Payload != "WIFI:T:WPA;S:A;P:;;" {
		t.Errorf("payload = %q", st.Payload)
	}

	st = send(t, conn, ClientMessage{Op: OpMode, Value: "text"})
	if st.Payload != "" || st.Exportable {
		t.Errorf("text state = %+v, want empty payload", st)
	}

	st = send(t, conn, ClientMessage{Op: OpMode, Value: "wifi"})
	if !strings.Contains(st.Payload, "S:A;") {
		t.Errorf("payload = %q, want ssid A preserved", st.Payload)
	}
	if st.Session != first.Session {
		t.Errorf("session changed from %q to %q", first.Session, st.Session)
	}
}

func TestWebSocket_RendersSVG(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts.URL)
	readState(t, conn)

	st := send(t, conn, ClientMessage{Op: OpSet, Field: "text", Value: "hello"})
	if !st.Exportable {
		t.Error("state should be exportable")
	}
	if !strings.Contains(st.SVG, "<svg") {
		t.Error("state should carry the svg preview")
	}
}

func TestWebSocket_Errors(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts.URL)
	readState(t, conn)

	tests := []struct {
		name string
		msg  ClientMessage
		want string
	}{
		{"unknown field", ClientMessage{Op: OpSet, Field: "phone", Value: "1"}, `unknown field "phone"`},
		{"unknown op", ClientMessage{Op: "reset"}, `unknown op "reset"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := send(t, conn, tt.msg)
			if st.Error != tt.want {
				t.Errorf("error = %q, want %q", st.Error, tt.want)
			}
		})
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if st := readState(t, conn); st.Error != "invalid message" {
		t.Errorf("error = %q, want invalid message", st.Error)
	}

	// The session survives bad messages
	st := send(t, conn, ClientMessage{Op: OpSet, Field: "text", Value: "ok"})
	if st.Payload != "ok" || st.Error != "" {
		t.Errorf("state = %+v", st)
	}
}

func TestWebSocket_SessionsAreIndependent(t *testing.T) {
	_, ts := newTestServer(t, nil)
	a := dial(t, ts.URL)
	b := dial(t, ts.URL)
	readState(t, a)
	readState(t, b)

	send(t, a, ClientMessage{Op: OpSet, Field: "text", Value: "from a"})
	st := send(t, b, ClientMessage{Op: OpMode, Value: "text"})

	if st.Payload != "" {
		t.Errorf("session b payload = %q, want empty", st.Payload)
	}
}

func TestShutdown_ClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts.URL)
	readState(t, conn)

	if n := srv.ActiveSessions(); n != 1 {
		t.Fatalf("ActiveSessions() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if n := srv.ActiveSessions(); n != 0 {
		t.Errorf("ActiveSessions() after shutdown = %d, want 0", n)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going away close", err)
	}
}
