package app

import (
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// SetAudio flips the sender's own audio flag and tells the room.
func (c *Coordinator) SetAudio(sid domain.SessionID, enabled bool) error {
	return c.setFlag(sid, EvtAudioToggled, func(p *domain.Participant) { p.AudioEnabled = enabled }, enabled)
}

// SetVideo flips the sender's own video flag and tells the room.
func (c *Coordinator) SetVideo(sid domain.SessionID, enabled bool) error {
	return c.setFlag(sid, EvtVideoToggled, func(p *domain.Participant) { p.VideoEnabled = enabled }, enabled)
}

// SetHandRaised flips the sender's hand flag and tells the room.
func (c *Coordinator) SetHandRaised(sid domain.SessionID, raised bool) error {
	return c.setFlag(sid, EvtHandRaised, func(p *domain.Participant) { p.HandRaised = raised }, raised)
}

func (c *Coordinator) setFlag(sid domain.SessionID, event string, fn func(*domain.Participant), enabled bool) error {
	room, _, err := c.roomAndMember(sid)
	if err != nil {
		log.Warn().Str("module", "app.presence").Str("sid", string(sid)).Str("event", event).Msg("flag change from non-member ignored")
		return err
	}
	updated, ok := room.UpdateParticipant(sid, fn)
	if !ok {
		return ErrNotAMember
	}
	broadcast(room, flagEvent{
		Type:      event,
		SessionID: sid,
		UserID:    updated.UserID,
		Enabled:   enabled,
	})
	return nil
}

// StartScreenShare marks the sender as sharing and points the room's share
// reference at it. Another active sharer is not stopped.
func (c *Coordinator) StartScreenShare(sid domain.SessionID) error {
	return c.setSharing(sid, true, EvtScreenShareStarted)
}

// StopScreenShare clears the sender's share flag; the room reference is
// cleared only if the sender held it.
func (c *Coordinator) StopScreenShare(sid domain.SessionID) error {
	return c.setSharing(sid, false, EvtScreenShareStopped)
}

func (c *Coordinator) setSharing(sid domain.SessionID, on bool, event string) error {
	room, _, err := c.roomAndMember(sid)
	if err != nil {
		return err
	}
	updated, ok := room.SetSharing(sid, on)
	if !ok {
		return ErrNotAMember
	}
	broadcast(room, screenShareEvent{Type: event, Participant: updated})
	return nil
}

// Mute forces a target's audio off. Instructor-only: the one exception to
// participants owning their own flags.
func (c *Coordinator) Mute(actorSID, targetSID domain.SessionID) error {
	return c.moderateFlag(actorSID, targetSID, EvtMuted, EvtAudioToggled,
		func(p *domain.Participant) { p.AudioEnabled = false },
		" was muted by ")
}

// DisableVideo forces a target's video off. Instructor-only.
func (c *Coordinator) DisableVideo(actorSID, targetSID domain.SessionID) error {
	return c.moderateFlag(actorSID, targetSID, EvtVideoDisabled, EvtVideoToggled,
		func(p *domain.Participant) { p.VideoEnabled = false },
		"'s video was disabled by ")
}

func (c *Coordinator) moderateFlag(actorSID, targetSID domain.SessionID, directive, flagEvt string, fn func(*domain.Participant), notice string) error {
	room, actor, err := c.roomAndMember(actorSID)
	if err != nil {
		return err
	}
	if !actor.Participant().IsInstructor() {
		log.Warn().Str("module", "app.presence").Str("sid", string(actorSID)).Str("directive", directive).Msg("moderation denied: not instructor")
		return ErrUnauthorized
	}
	target, ok := room.Member(targetSID)
	if !ok {
		return ErrInvalidReference
	}
	updated, ok := room.UpdateParticipant(targetSID, fn)
	if !ok {
		return ErrInvalidReference
	}
	send(target, directiveEvent{Type: directive, By: actor.Participant().UserID})
	broadcast(room, flagEvent{
		Type:      flagEvt,
		SessionID: targetSID,
		UserID:    updated.UserID,
		Enabled:   false,
	})
	c.systemMessage(room, updated.DisplayName+notice+actor.Participant().DisplayName)
	return nil
}
