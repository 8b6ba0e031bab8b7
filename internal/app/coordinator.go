// Package app implements the room/session coordination engine: admission,
// membership, signal relay and the per-room feature state. The Coordinator
// is the single service object owning all process-wide tables; there are no
// package-level globals, so independent instances can coexist in tests.
package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

const (
	DefaultCapacity   = 20
	DefaultChatWindow = 50
)

type Coordinator struct {
	Registry *Registry
	Rooms    *RoomTable

	// Capacity caps participants per room; <= 0 means unlimited.
	Capacity int
	// ChatWindow bounds the retrievable chat history per room.
	ChatWindow int
}

func NewCoordinator(capacity, chatWindow int) *Coordinator {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if chatWindow == 0 {
		chatWindow = DefaultChatWindow
	}
	return &Coordinator{
		Registry:   NewRegistry(),
		Rooms:      NewRoomTable(),
		Capacity:   capacity,
		ChatWindow: chatWindow,
	}
}

// Join admits a session into a room, creating the room if needed. Policy, in
// order: refuse when the room is full; evict an older session of the same
// user (reconnect wins); admit, bind, flush parked notifications, and tell
// the rest of the room. The returned snapshot lists the other participants
// and goes only to the joiner.
func (c *Coordinator) Join(sid domain.SessionID, user *domain.User, roomID domain.RoomID, conn core.SignalConnection, cancel context.CancelFunc) ([]domain.Participant, error) {
	part := domain.NewParticipant(sid, user)
	ms := core.NewMemberSession(part, conn)
	room := c.Rooms.GetOrCreate(roomID)

	// Capacity is checked before duplicate handling, so a reconnect into a
	// full room is refused like any other join.
	if c.Capacity > 0 && room.MemberCount() >= c.Capacity {
		return nil, ErrRoomFull
	}

	if oldSID, ok := c.Registry.Lookup(user.ID, roomID); ok && oldSID != sid {
		c.evictSuperseded(room, oldSID)
	}

	if err := room.Admit(sid, ms, c.Capacity); err != nil {
		c.Rooms.RemoveIfEmpty(roomID)
		return nil, err
	}
	c.Registry.Bind(sid, user.ID, roomID, ms, cancel)

	snapshot := room.Snapshot(sid)
	broadcastExcept(room, sid, userJoinedEvent{Type: EvtUserJoined, Participant: *part})

	for _, n := range c.Registry.FlushPending(user.ID) {
		send(ms, notificationEvent{Type: EvtNotification, Notification: n})
	}

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("user", string(user.ID)).Str("room", string(roomID)).Msg("joined")
	return snapshot, nil
}

// evictSuperseded removes the older session of a reconnecting user: it is
// told it was replaced, its connection is cancelled, and the room sees a
// user-left. Cancel must run before the registry entry is unbound or the
// cancel func is unreachable. The room is not torn down; the new session is
// about to land.
func (c *Coordinator) evictSuperseded(room *core.Room, oldSID domain.SessionID) {
	if old, ok := room.Member(oldSID); ok {
		send(old, sessionReplacedEvent{Type: EvtSessionReplaced})
	}
	c.Registry.Cancel(oldSID)
	c.removeFromRoom(room, oldSID)
	log.Info().Str("module", "app.coordinator").Str("sid", string(oldSID)).Str("room", string(room.ID())).Msg("evicted superseded session")
}

// Leave removes a participant and tears the room down when it empties.
// Safe to call for sessions that already left.
func (c *Coordinator) Leave(sid domain.SessionID) {
	rid, _, ok := c.Registry.RoomOf(sid)
	if !ok {
		return
	}
	room, ok := c.Rooms.Get(rid)
	if !ok {
		c.Registry.Unbind(sid)
		return
	}
	c.removeFromRoom(room, sid)
	c.Rooms.RemoveIfEmpty(rid)
}

func (c *Coordinator) removeFromRoom(room *core.Room, sid domain.SessionID) {
	ms, ok := room.Remove(sid)
	c.Registry.Unbind(sid)
	if !ok {
		return
	}
	broadcast(room, userLeftEvent{
		Type:      EvtUserLeft,
		SessionID: sid,
		UserID:    ms.Participant().UserID,
	})
}

// Kick forcibly removes a target. Instructor-only; the target is notified
// before removal and the room chat gets a moderation notice.
func (c *Coordinator) Kick(actorSID, targetSID domain.SessionID) error {
	room, actor, err := c.roomAndMember(actorSID)
	if err != nil {
		return err
	}
	if !actor.Participant().IsInstructor() {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(actorSID)).Msg("kick denied: not instructor")
		return ErrUnauthorized
	}
	target, ok := room.Member(targetSID)
	if !ok {
		return ErrInvalidReference
	}
	send(target, directiveEvent{Type: EvtKicked, By: actor.Participant().UserID})
	c.systemMessage(room, target.Participant().DisplayName+" was removed by "+actor.Participant().DisplayName)

	rid := room.ID()
	c.Registry.Cancel(targetSID)
	c.removeFromRoom(room, targetSID)
	c.Rooms.RemoveIfEmpty(rid)
	log.Info().Str("module", "app.coordinator").Str("actor", string(actorSID)).Str("target", string(targetSID)).Msg("kicked")
	return nil
}

// roomAndMember resolves a sender to its room and membership entry. Any
// failure maps to ErrNotAMember; actions from untracked sessions are
// ignored upstream.
func (c *Coordinator) roomAndMember(sid domain.SessionID) (*core.Room, core.MemberSession, error) {
	rid, _, ok := c.Registry.RoomOf(sid)
	if !ok {
		return nil, nil, ErrNotAMember
	}
	room, ok := c.Rooms.Get(rid)
	if !ok {
		return nil, nil, ErrNotAMember
	}
	ms, ok := room.Member(sid)
	if !ok {
		return nil, nil, ErrNotAMember
	}
	return room, ms, nil
}

func (c *Coordinator) systemMessage(room *core.Room, text string) {
	msg := domain.NewSystemMessage(uuid.NewString(), text)
	room.AppendMessage(msg, c.ChatWindow)
	broadcast(room, chatMessageEvent{Type: EvtChatMessage, Message: msg})
}
