package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/app"
	"github.com/avillegas/aulacall/internal/domain"
)

func (ctl *Controller) handleChat(sid domain.SessionID, data []byte) {
	var p struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if p.Text == "" {
		return
	}
	_, _ = ctl.Coord.PostMessage(sid, p.Text)
}

// handleChatHistory is one of the two synchronous request/reply exchanges
// (the other is ping): the recent window goes back to the requester only.
func (ctl *Controller) handleChatHistory(sid domain.SessionID, c *WsConn) {
	messages, err := ctl.Coord.History(sid)
	if err != nil {
		return
	}
	ctl.sendJSON(c, app.ChatHistoryEvent{
		Type:     app.EvtChatHistory,
		Messages: messages,
	})
}
