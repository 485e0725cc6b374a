package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pkordes/flight-dashboard/internal/dashboard"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Message types on the live dashboard socket.
const (
	MessageTypeSearch   = "search"
	MessageTypeSnapshot = "snapshot"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type        string `json:"type"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// ServerMessage is pushed to the browser after every board change.
type ServerMessage struct {
	Type      string             `json:"type"`
	SessionID uuid.UUID          `json:"session_id"`
	Snapshot  dashboard.Snapshot `json:"snapshot"`
}

// LiveDashboard handles GET /dashboard/ws?origin=&destination=[&loaded=1].
//
// Each connection gets its own dashboard session. Opening the connection
// fires the page-load trigger unless loaded=1 says the page was already
// drawn by GetDashboard; every search message fires the search trigger. Board changes are pushed as snapshot messages; a slow client
// only receives the latest state.
func (s *Server) LiveDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.DebugContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := dashboard.NewSession(r.Context(), s.fetcher, s.controllerOpts()...)
	sess.Board.SetInputs(r.URL.Query().Get("origin"), r.URL.Query().Get("destination"))
	snaps, unsubscribe := sess.Board.Subscribe()

	log := s.logger.With("session_id", sess.ID)
	log.InfoContext(r.Context(), "dashboard session opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(conn, sess.ID, snaps)
	}()

	if r.URL.Query().Get("loaded") != "1" {
		sess.Load()
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WarnContext(r.Context(), "dashboard socket closed unexpectedly", "error", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.DebugContext(r.Context(), "ignoring malformed dashboard message", "error", err)
			continue
		}
		switch msg.Type {
		case MessageTypeSearch:
			sess.Search(msg.Origin, msg.Destination)
		default:
			log.DebugContext(r.Context(), "ignoring dashboard message", "type", msg.Type)
		}
	}

	sess.Close()
	unsubscribe()
	<-writerDone
	log.InfoContext(r.Context(), "dashboard session closed")
}

// writePump is the only writer on conn besides Close. It returns when snaps
// is closed or a write fails.
func (s *Server) writePump(conn *websocket.Conn, id uuid.UUID, snaps <-chan dashboard.Snapshot) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-snaps:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg := ServerMessage{Type: MessageTypeSnapshot, SessionID: id, Snapshot: snap}
			if err := conn.WriteJSON(msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.logger.Debug("dashboard socket write failed", "session_id", id, "error", err)
				}
				_ = conn.Close() // unblocks the reader
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
