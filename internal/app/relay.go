package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// Relay forwards an opaque connection-setup payload (offer, answer or
// ice-candidate) to one named session in the sender's room. Payloads pass
// through verbatim; their structure belongs to the peers. Targets are
// addressed by session id only; a reconnected user has a new session id and
// stale addresses simply miss. Lost signals are not queued or retried; the
// peers detect and retry at the application layer, so failures here are
// logged and swallowed.
func (c *Coordinator) Relay(kind string, fromSID, toSID domain.SessionID, payload json.RawMessage) error {
	room, sender, err := c.roomAndMember(fromSID)
	if err != nil {
		log.Warn().Str("module", "app.relay").Str("kind", kind).Str("from", string(fromSID)).Msg("relay from non-member dropped")
		return err
	}
	target, ok := room.Member(toSID)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("kind", kind).Str("from", string(fromSID)).Str("to", string(toSID)).Msg("relay target not found")
		return ErrInvalidReference
	}
	p := sender.Participant()
	send(target, signalEvent{
		Type: kind,
		From: fromSID,
		Sender: domain.User{
			ID:   p.UserID,
			Name: p.DisplayName,
			Role: p.Role,
		},
		Payload: payload,
	})
	log.Debug().Str("module", "app.relay").Str("kind", kind).Str("from", string(fromSID)).Str("to", string(toSID)).Msg("relayed")
	return nil
}
