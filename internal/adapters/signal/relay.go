package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// handleSignal forwards one opaque connection-setup payload to the session
// named in "to". The payload is never inspected. Relay failures are
// best-effort by design: nothing is reported back to the sender.
func (ctl *Controller) handleSignal(sid domain.SessionID, kind string, data []byte) {
	var p struct {
		Type    string          `json:"type"`
		To      string          `json:"to"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad signal payload")
		return
	}
	_ = ctl.Coord.Relay(kind, sid, domain.SessionID(p.To), p.Payload)
}
