package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

func (ctl *Controller) handleNotifyUser(sid domain.SessionID, data []byte) {
	var p struct {
		Type             string `json:"type"`
		TargetUserID     string `json:"targetUserId"`
		Message          string `json:"message"`
		NotificationType string `json:"notificationType"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad notify-user payload")
		return
	}
	if p.TargetUserID == "" || p.Message == "" {
		return
	}
	_ = ctl.Coord.NotifyUser(sid, domain.UserID(p.TargetUserID), p.Message, p.NotificationType)
}

func (ctl *Controller) handleNotifyBroadcast(sid domain.SessionID, data []byte) {
	var p struct {
		Type             string `json:"type"`
		Message          string `json:"message"`
		NotificationType string `json:"notificationType"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad notify-broadcast payload")
		return
	}
	if p.Message == "" {
		return
	}
	_ = ctl.Coord.NotifyBroadcast(sid, p.Message, p.NotificationType)
}
