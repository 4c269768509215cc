package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"wcagadvisor/internal/requirement"
)

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchOutbound struct {
	Type  string             `json:"type"`
	Event *requirement.Event `json:"event,omitempty"`
}

// HandleWatch streams requirement status transitions for one project over a
// websocket. The peer is only expected to answer pings; inbound frames are
// read and discarded to keep the pong handler running.
func (s *Service) HandleWatch(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err)
		return
	}

	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, unsubscribe := s.hub.Subscribe(projectID)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := conn.SetReadDeadline(time.Now().Add(watchPongWait)); err != nil {
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(watchPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeWatch(conn, watchOutbound{Type: "subscribed"}); err != nil {
		return
	}

	ticker := time.NewTicker(watchPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case ev := <-events:
			if err := writeWatch(conn, watchOutbound{Type: "status", Event: &ev}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeWatch(conn *websocket.Conn, out watchOutbound) error {
	if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(out)
}
