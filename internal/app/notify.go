package app

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// NotifyUser sends a directed notification. A live target session in the
// room gets it immediately; otherwise it is parked under the target's user
// id and flushed on their next join to any room.
func (c *Coordinator) NotifyUser(sid domain.SessionID, targetUID domain.UserID, message, kind string) error {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		return err
	}
	n := domain.NewNotification(uuid.NewString(), ms.Participant(), message, kind)

	if tsid, ok := room.SessionOfUser(targetUID); ok {
		if target, ok := room.Member(tsid); ok {
			send(target, notificationEvent{Type: EvtNotification, Notification: n})
			return nil
		}
	}
	c.Registry.Park(targetUID, n)
	return nil
}

// NotifyBroadcast delivers a notification to every current room member and
// records it in the room's broadcast history. Instructor-only.
func (c *Coordinator) NotifyBroadcast(sid domain.SessionID, message, kind string) error {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		return err
	}
	if !ms.Participant().IsInstructor() {
		log.Warn().Str("module", "app.notify").Str("sid", string(sid)).Msg("broadcast denied: not instructor")
		return ErrUnauthorized
	}
	n := domain.NewNotification(uuid.NewString(), ms.Participant(), message, kind)
	room.AppendNotification(n)
	broadcast(room, notificationEvent{Type: EvtNotification, Notification: n})
	return nil
}
