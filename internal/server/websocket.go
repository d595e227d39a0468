package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/qrgen/internal/form"
	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Websocket operations sent by the client
const (
	OpSet  = "set"
	OpMode = "mode"
)

// ClientMessage is a form update sent over the live preview socket
type ClientMessage struct {
	Op    string `json:"op"`
	Field string `json:"field,omitempty"`
	Value string `json:"value"`
}

// StateMessage is sent after every update
type StateMessage struct {
	Session    string `json:"session"`
	Mode       string `json:"mode"`
	Payload    string `json:"payload"`
	Exportable bool   `json:"exportable"`
	SVG        string `json:"svg,omitempty"`
	Error      string `json:"error,omitempty"`
}

// session is one live preview connection. The form and renderer are only
// touched by the read loop.
type session struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	form       *form.Form
	renderer   *render.Renderer

	writeMu sync.Mutex
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess := &session{
		id:         uuid.NewString(),
		remoteAddr: r.RemoteAddr,
		conn:       conn,
		form:       s.newForm(),
		renderer:   render.New(s.config.Size),
	}

	s.addSession(sess)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.removeSession(sess.id)
		sess.run()
	}()
}

// run serves the session until the peer goes away
func (sess *session) run() {
	logging.LogSession(sess.id, sess.remoteAddr, "opened")
	defer func() {
		_ = sess.conn.Close()
		logging.LogSession(sess.id, sess.remoteAddr, "closed")
	}()

	sess.conn.SetReadLimit(maxMessageSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go sess.pingLoop(done)

	if err := sess.sendState(""); err != nil {
		logging.Warn("Failed to send initial state", zap.String("session", sess.id), zap.Error(err))
		return
	}

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("Live preview connection lost",
					zap.String("session", sess.id),
					zap.Error(err),
				)
			}
			return
		}

		var problem string
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			problem = "invalid message"
		} else if err := sess.apply(msg); err != nil {
			problem = err.Error()
		}

		if err := sess.sendState(problem); err != nil {
			logging.Warn("Failed to send state", zap.String("session", sess.id), zap.Error(err))
			return
		}
	}
}

// apply mutates the session form
func (sess *session) apply(msg ClientMessage) error {
	switch msg.Op {
	case OpSet:
		if !sess.form.Set(msg.Field, msg.Value) {
			return fmt.Errorf("unknown field %q", msg.Field)
		}
	case OpMode:
		sess.form.SetMode(payload.ParseMode(msg.Value))
	default:
		return fmt.Errorf("unknown op %q", msg.Op)
	}

	logging.Debug("Form updated",
		zap.String("session", sess.id),
		zap.String("form", sess.form.Describe()),
	)
	return nil
}

// state renders the current form
func (sess *session) state() StateMessage {
	p := sess.form.Payload()
	sym := sess.renderer.Render(p)
	return StateMessage{
		Session:    sess.id,
		Mode:       sess.form.Mode().String(),
		Payload:    p,
		Exportable: sess.form.CanExport() && !sym.Empty(),
		SVG:        sym.Vector,
	}
}

func (sess *session) sendState(problem string) error {
	st := sess.state()
	st.Error = problem

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteJSON(st)
}

func (sess *session) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			sess.writeMu.Lock()
			err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			sess.writeMu.Unlock()
			if err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug("Ping failed", zap.String("session", sess.id), zap.Error(err))
				}
				return
			}
		}
	}
}

// close sends a close frame and drops the connection, ending run
func (sess *session) close(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = sess.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = sess.conn.Close()
}
