// Package signal is the websocket adapter: it upgrades connections, owns
// their read/write pumps, and translates wire messages into coordinator
// calls. One type-tagged dispatch switch per session replaces per-event
// callback wiring.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/app"
	"github.com/avillegas/aulacall/internal/config"
	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord    *app.Coordinator
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, coord *app.Coordinator) *Controller {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return &Controller{
		Coord: coord,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// WsConn wraps one websocket with a buffered outbound queue. TrySend never
// blocks; a full queue is a dropped frame, reported to the caller.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleWS validates the identity claims carried in the query string,
// upgrades, runs the join pipeline, and then pumps the connection until it
// drops. Connection teardown is the leave signal.
func (ctl *Controller) HandleWS(parent context.Context, c *gin.Context) {
	q := c.Request.URL.Query()
	user, uerr := domain.NewUser(q.Get("userId"), q.Get("userName"), domain.Role(q.Get("userRole")))
	roomID, rerr := domain.ValidateRoomID(q.Get("roomId"))
	if uerr != nil || rerr != nil {
		log.Warn().Str("module", "signal").Str("remote", c.ClientIP()).Msg("connection refused: missing auth fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "authentication required"})
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := domain.SessionID(uuid.NewString())
	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	snapshot, err := ctl.Coord.Join(sid, user, roomID, conn, cancel)
	if err != nil {
		// Refusals are the only caller-visible failures; write the event
		// directly, the pumps never start for this connection.
		if errors.Is(err, app.ErrRoomFull) {
			_ = ws.WriteJSON(map[string]any{"type": app.EvtRoomFull, "room": roomID})
		} else {
			_ = ws.WriteJSON(map[string]any{"type": app.EvtRoomError, "error": err.Error()})
		}
		conn.Close()
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(roomID)).Msg("new WS session")

	ctl.sendJSON(conn, app.RoomUsersEvent{
		Type:         app.EvtRoomUsers,
		Room:         roomID,
		Participants: snapshot,
	})

	// Cancellation (shutdown, supersession, stale sweep) must unblock the
	// read pump, so the context closes the socket out from under it.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go ctl.writePump(ctx, conn)
	ctl.readPump(ctx, sid, conn)

	cancel()
	ctl.Coord.Leave(sid)
	conn.Close()
}

func (ctl *Controller) sendJSON(conn *WsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("sendJSON dropped")
	}
}
