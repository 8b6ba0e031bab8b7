package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// CreatePoll opens a new poll in the actor's room. Instructor-only. A
// positive duration schedules a one-shot auto-close that becomes a no-op if
// the poll or the room is gone by then.
func (c *Coordinator) CreatePoll(sid domain.SessionID, question string, options []string, durationMinutes int) (domain.Poll, error) {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		return domain.Poll{}, err
	}
	if !ms.Participant().IsInstructor() {
		log.Warn().Str("module", "app.polls").Str("sid", string(sid)).Msg("poll create denied: not instructor")
		return domain.Poll{}, ErrUnauthorized
	}

	duration := time.Duration(durationMinutes) * time.Minute
	poll, err := domain.NewPoll(uuid.NewString(), question, options, duration)
	if err != nil {
		return domain.Poll{}, err
	}
	room.AddPoll(poll)

	snap, _ := room.PollSnapshot(poll.ID)
	broadcast(room, pollEvent{Type: EvtPollCreated, Poll: snap})
	log.Info().Str("module", "app.polls").Str("room", string(room.ID())).Str("poll", poll.ID).Msg("poll created")

	if duration > 0 {
		rid := room.ID()
		pollID := poll.ID
		time.AfterFunc(duration, func() {
			c.expirePoll(rid, pollID)
		})
	}
	return snap, nil
}

// expirePoll is the auto-close callback. The room or the poll may already be
// gone, or the poll may have been closed by hand; all of those are no-ops.
func (c *Coordinator) expirePoll(rid domain.RoomID, pollID string) {
	room, ok := c.Rooms.Get(rid)
	if !ok {
		return
	}
	closed, ok := room.ClosePoll(pollID)
	if !ok {
		return
	}
	broadcast(room, pollEvent{Type: EvtPollClosed, Poll: closed})
	c.systemMessage(room, "Poll ended: "+closed.Question)
	log.Info().Str("module", "app.polls").Str("room", string(rid)).Str("poll", pollID).Msg("poll expired")
}

// Vote casts one immutable vote. Unknown poll, out-of-range option, or a
// repeat voter all leave the poll untouched and emit nothing.
func (c *Coordinator) Vote(sid domain.SessionID, pollID string, optionIndex int) error {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		return err
	}
	updated, ok := room.Vote(pollID, optionIndex, ms.Participant().UserID)
	if !ok {
		log.Warn().Str("module", "app.polls").Str("sid", string(sid)).Str("poll", pollID).Int("option", optionIndex).Msg("vote ignored")
		return ErrInvalidReference
	}
	broadcast(room, pollEvent{Type: EvtPollUpdated, Poll: updated})
	return nil
}

// ClosePoll ends a poll by hand. Instructor-only; the poll stays retrievable
// for the room's lifetime, only marked inactive.
func (c *Coordinator) ClosePoll(sid domain.SessionID, pollID string) error {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		return err
	}
	if !ms.Participant().IsInstructor() {
		log.Warn().Str("module", "app.polls").Str("sid", string(sid)).Msg("poll close denied: not instructor")
		return ErrUnauthorized
	}
	closed, ok := room.ClosePoll(pollID)
	if !ok {
		return ErrInvalidReference
	}
	broadcast(room, pollEvent{Type: EvtPollClosed, Poll: closed})
	c.systemMessage(room, "Poll closed: "+closed.Question)
	return nil
}

// ActivePolls lists the still-open polls of the sender's room.
func (c *Coordinator) ActivePolls(sid domain.SessionID) ([]domain.Poll, error) {
	room, _, err := c.roomAndMember(sid)
	if err != nil {
		return nil, err
	}
	return room.ActivePolls(), nil
}
