// README: Feed websocket: pushes feed change events so the page can refresh and scroll.
package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nomad/internal/modules/feed"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = socketPongWait * 9 / 10
)

type FeedSocketHandler struct {
	upgrader       websocket.Upgrader
	allowedOrigins map[string]bool
	log            *zap.Logger
}

func NewFeedSocketHandler(allowedOrigins []string, log *zap.Logger) *FeedSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &FeedSocketHandler{allowedOrigins: make(map[string]bool), log: log}
	for _, o := range allowedOrigins {
		h.allowedOrigins[o] = true
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin accepts same-host pages, listed origins and non-browser clients.
func (h *FeedSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.allowedOrigins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// Serve handles GET /ui/feed/ws. The current state is sent first, then one event per change.
func (h *FeedSocketHandler) Serve(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("feed socket: upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := ws.Feed.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(socketPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("feed socket: closed unexpectedly", zap.Error(err))
				}
				return
			}
		}
	}()

	ping := time.NewTicker(socketPingPeriod)
	defer ping.Stop()

	if err := h.write(conn, feed.Event{Length: ws.Feed.Len(), Loading: ws.Feed.IsLoading()}); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, ev); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *FeedSocketHandler) write(conn *websocket.Conn, ev feed.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	if err := conn.WriteJSON(ev); err != nil {
		h.log.Debug("feed socket: write failed", zap.Error(err))
		return err
	}
	return nil
}
