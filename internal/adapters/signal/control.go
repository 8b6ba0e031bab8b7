package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

func (ctl *Controller) handleToggleAudio(sid domain.SessionID, data []byte) {
	if enabled, ok := decodeToggle(data, "toggle-audio"); ok {
		_ = ctl.Coord.SetAudio(sid, enabled)
	}
}

func (ctl *Controller) handleToggleVideo(sid domain.SessionID, data []byte) {
	if enabled, ok := decodeToggle(data, "toggle-video"); ok {
		_ = ctl.Coord.SetVideo(sid, enabled)
	}
}

func (ctl *Controller) handleRaiseHand(sid domain.SessionID, data []byte) {
	var p struct {
		Type   string `json:"type"`
		Raised bool   `json:"raised"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad raise-hand payload")
		return
	}
	_ = ctl.Coord.SetHandRaised(sid, p.Raised)
}

func decodeToggle(data []byte, kind string) (bool, bool) {
	var p struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad toggle payload")
		return false, false
	}
	return p.Enabled, true
}

func decodeTarget(data []byte, kind string) (domain.SessionID, bool) {
	var p struct {
		Type   string `json:"type"`
		Target string `json:"target"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		log.Warn().Str("module", "signal").Str("kind", kind).Msg("bad moderation payload")
		return "", false
	}
	return domain.SessionID(p.Target), true
}

func (ctl *Controller) handleKick(sid domain.SessionID, data []byte) {
	if target, ok := decodeTarget(data, "kick"); ok {
		_ = ctl.Coord.Kick(sid, target)
	}
}

func (ctl *Controller) handleMute(sid domain.SessionID, data []byte) {
	if target, ok := decodeTarget(data, "mute"); ok {
		_ = ctl.Coord.Mute(sid, target)
	}
}

func (ctl *Controller) handleDisableVideo(sid domain.SessionID, data []byte) {
	if target, ok := decodeTarget(data, "disable-video"); ok {
		_ = ctl.Coord.DisableVideo(sid, target)
	}
}
