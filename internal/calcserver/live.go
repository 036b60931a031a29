package calcserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/udisondev/statcalc/internal/build"
)

type liveReply struct {
	Seq        int               `json:"seq"`
	Evaluation *build.Evaluation `json:"evaluation,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// handleLive upgrades to a websocket. Every text frame is a full calculate
// request answered by one reply; nothing carries over between frames.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	if s.cfg.LiveMaxFrameKiB > 0 {
		conn.SetReadLimit(s.cfg.LiveMaxFrameKiB * 1024)
	}

	ctx := r.Context()
	slog.Debug("live session opened", "remote", conn.RemoteAddr())
	for seq := 1; ; seq++ {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				slog.Debug("live session ended", "remote", conn.RemoteAddr(), "err", err)
			}
			return
		}
		if kind != websocket.TextMessage || len(bytes.TrimSpace(frame)) == 0 {
			seq--
			continue
		}

		reply := liveReply{Seq: seq}
		var b build.Build
		if err := json.Unmarshal(frame, &b); err != nil {
			reply.Error = "decoding frame: " + err.Error()
		} else if ev, err := s.svc.Evaluate(ctx, &b); err != nil {
			reply.Error = err.Error()
		} else {
			reply.Evaluation = ev
		}

		if err := conn.WriteJSON(reply); err != nil {
			slog.Debug("live write failed", "remote", conn.RemoteAddr(), "err", err)
			return
		}
	}
}
