package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/abhishaiv/AI-Study-Master/internal/chat"
)

const (
	frameFragment = "fragment"
	frameDone     = "done"
	frameError    = "error"
)

type chatRequest struct {
	Text string `json:"text"`
}

type chatFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// chat upgrades to a WebSocket carrying one chat session. Fragment frames
// hold the reply text accumulated so far. Closing the socket cancels the
// reply in flight.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts(s.deps.AllowedOrigins),
	})
	if err != nil {
		s.deps.Logger.Warn("websocket accept", "error", err)
		return
	}
	defer c.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := chat.NewSession(s.deps.Provider, s.deps.Catalog, chat.WithLogger(s.deps.Logger))
	welcome := sess.Messages()[0]
	if err := wsjson.Write(ctx, c, chatFrame{Type: frameDone, ID: welcome.ID, Text: welcome.Text}); err != nil {
		return
	}

	incoming := make(chan chatRequest)
	go func() {
		defer cancel()
		for {
			var req chatRequest
			if err := wsjson.Read(ctx, c, &req); err != nil {
				if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
					s.deps.Logger.Debug("websocket read", "error", err)
				}
				return
			}
			select {
			case incoming <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-incoming:
			reply, err := sess.Begin(ctx, req.Text)
			if err != nil {
				_ = wsjson.Write(ctx, c, chatFrame{Type: frameError, Text: err.Error()})
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.relayChat(ctx, c, sess, reply)
			}()
		}
	}
}

func (s *Server) relayChat(ctx context.Context, c *websocket.Conn, sess *chat.Session, reply *chat.Reply) {
	err := sess.Relay(ctx, reply, func(m chat.Message) {
		_ = wsjson.Write(ctx, c, chatFrame{Type: frameFragment, ID: m.ID, Text: m.Text})
	})
	switch {
	case reply.Cancelled():
	case err != nil:
		_ = wsjson.Write(ctx, c, chatFrame{Type: frameError, ID: reply.ID(), Text: chat.ErrorText})
	default:
		_ = wsjson.Write(ctx, c, chatFrame{Type: frameDone, ID: reply.ID(), Text: reply.Text()})
	}
}

// originHosts turns CORS origins into the host patterns the WebSocket
// handshake checks.
func originHosts(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		out = append(out, strings.TrimRight(o, "/"))
	}
	return out
}
