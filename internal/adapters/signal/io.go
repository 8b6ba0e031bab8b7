package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid domain.SessionID, c *WsConn) {
	defer log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.Coord.Registry.Touch(sid)
			ctl.handleMessage(sid, c, data)
		}
	}
}

// handleMessage is the single entry point per session: every inbound frame
// is a type-tagged JSON object dispatched over a closed set of kinds.
// Malformed frames are dropped without terminating the connection.
func (ctl *Controller) handleMessage(sid domain.SessionID, c *WsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json dropped")
		return
	}

	switch env.Type {
	case "ping":
		ctl.sendJSON(c, map[string]string{"type": "pong"})
	case "leave":
		ctl.Coord.Leave(sid)
		ctl.sendJSON(c, map[string]string{"type": "left"})
	case "offer", "answer", "ice-candidate":
		ctl.handleSignal(sid, env.Type, data)
	case "chat-message":
		ctl.handleChat(sid, data)
	case "chat-history":
		ctl.handleChatHistory(sid, c)
	case "toggle-audio":
		ctl.handleToggleAudio(sid, data)
	case "toggle-video":
		ctl.handleToggleVideo(sid, data)
	case "raise-hand":
		ctl.handleRaiseHand(sid, data)
	case "screen-share-start":
		_ = ctl.Coord.StartScreenShare(sid)
	case "screen-share-stop":
		_ = ctl.Coord.StopScreenShare(sid)
	case "poll-create":
		ctl.handlePollCreate(sid, data)
	case "poll-vote":
		ctl.handlePollVote(sid, data)
	case "poll-close":
		ctl.handlePollClose(sid, data)
	case "poll-list":
		ctl.handlePollList(sid, c)
	case "notify-user":
		ctl.handleNotifyUser(sid, data)
	case "notify-broadcast":
		ctl.handleNotifyBroadcast(sid, data)
	case "kick":
		ctl.handleKick(sid, data)
	case "mute":
		ctl.handleMute(sid, data)
	case "disable-video":
		ctl.handleDisableVideo(sid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message kind")
	}
}
