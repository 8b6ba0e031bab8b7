package core

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

var ErrRoomFull = errors.New("room full")

// Room is the threadsafe in-memory state of one call: membership, chat log,
// polls, notification history and the screen-share reference. Every
// read-modify-write goes through its single RWMutex so concurrent handlers
// see each transition applied atomically. Rooms are independent; locks never
// nest across rooms.
type Room struct {
	id        domain.RoomID
	createdAt time.Time

	mu            sync.RWMutex
	members       map[domain.SessionID]MemberSession
	byUser        map[domain.UserID]domain.SessionID
	messages      []domain.ChatMessage
	polls         []*domain.Poll
	notifications []domain.Notification
	sharer        domain.SessionID
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{
		id:        id,
		createdAt: time.Now(),
		members:   make(map[domain.SessionID]MemberSession),
		byUser:    make(map[domain.UserID]domain.SessionID),
	}
}

func (r *Room) ID() domain.RoomID    { return r.id }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) Member(sid domain.SessionID) (MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ms, ok := r.members[sid]
	return ms, ok
}

// SessionOfUser reports the live session currently bound to a user in this
// room, if any.
func (r *Room) SessionOfUser(uid domain.UserID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.byUser[uid]
	return sid, ok
}

// Admit adds a member unless the room is at capacity. The check and the
// insert happen under one lock so two racing joins cannot both squeeze in.
func (r *Room) Admit(sid domain.SessionID, ms MemberSession, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if capacity > 0 && len(r.members) >= capacity {
		return ErrRoomFull
	}
	u := ms.Participant().UserID
	r.members[sid] = ms
	r.byUser[u] = sid
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(sid)).Str("user", string(u)).Msg("member added")
	return nil
}

// Remove deletes a member and returns it. The screen-share reference is
// cleared when the sharer leaves.
func (r *Room) Remove(sid domain.SessionID) (MemberSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.members[sid]
	if !ok {
		return nil, false
	}
	u := ms.Participant().UserID
	if r.byUser[u] == sid {
		delete(r.byUser, u)
	}
	delete(r.members, sid)
	if r.sharer == sid {
		r.sharer = ""
	}
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(sid)).Msg("member removed")
	return ms, true
}

// Snapshot returns participant copies for everyone except the excluded
// session. Used to seed a joiner's initial view.
func (r *Room) Snapshot(exclude domain.SessionID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Participant, 0, len(r.members))
	for sid, ms := range r.members {
		if sid == exclude {
			continue
		}
		out = append(out, *ms.Participant())
	}
	return out
}

func (r *Room) Sessions() []MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSession, 0, len(r.members))
	for _, ms := range r.members {
		out = append(out, ms)
	}
	return out
}

// UpdateParticipant applies fn to a member's meta under the room lock and
// returns the updated copy.
func (r *Room) UpdateParticipant(sid domain.SessionID, fn func(*domain.Participant)) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.members[sid]
	if !ok {
		return domain.Participant{}, false
	}
	fn(ms.Participant())
	return *ms.Participant(), true
}

// SetSharing flips a member's screen-share flag and maintains the room's
// sharer reference. Starting a share does not stop another active sharer;
// the reference simply tracks the most recent starter.
func (r *Room) SetSharing(sid domain.SessionID, on bool) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms, ok := r.members[sid]
	if !ok {
		return domain.Participant{}, false
	}
	ms.Participant().ScreenSharing = on
	if on {
		r.sharer = sid
	} else if r.sharer == sid {
		r.sharer = ""
	}
	return *ms.Participant(), true
}

func (r *Room) Sharer() (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sharer == "" {
		return domain.Participant{}, false
	}
	ms, ok := r.members[r.sharer]
	if !ok {
		return domain.Participant{}, false
	}
	return *ms.Participant(), true
}

// AppendMessage appends to the chat log, keeping at most window entries.
func (r *Room) AppendMessage(msg domain.ChatMessage, window int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	if window > 0 && len(r.messages) > window {
		r.messages = r.messages[len(r.messages)-window:]
	}
}

// RecentMessages returns up to n newest messages, oldest first.
func (r *Room) RecentMessages(n int) []domain.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	start := 0
	if n > 0 && len(r.messages) > n {
		start = len(r.messages) - n
	}
	out := make([]domain.ChatMessage, len(r.messages)-start)
	copy(out, r.messages[start:])
	return out
}

func (r *Room) AddPoll(p *domain.Poll) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls = append(r.polls, p)
}

// Vote applies one vote. It reports false, with no state change, when the
// poll is missing or closed, the option index is out of range, or the user
// already voted.
func (r *Room) Vote(pollID string, optionIndex int, uid domain.UserID) (domain.Poll, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pollLocked(pollID)
	if p == nil || !p.Active {
		return domain.Poll{}, false
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return domain.Poll{}, false
	}
	if p.HasVoted(uid) {
		return domain.Poll{}, false
	}
	p.Results[optionIndex]++
	p.Voters = append(p.Voters, uid)
	return clonePoll(p), true
}

// ClosePoll marks a poll inactive. Closing an already closed or unknown poll
// reports false, which lets expiry timers fire as no-ops.
func (r *Room) ClosePoll(pollID string) (domain.Poll, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pollLocked(pollID)
	if p == nil || !p.Active {
		return domain.Poll{}, false
	}
	p.Active = false
	return clonePoll(p), true
}

func (r *Room) PollSnapshot(pollID string) (domain.Poll, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.pollLocked(pollID)
	if p == nil {
		return domain.Poll{}, false
	}
	return clonePoll(p), true
}

func (r *Room) ActivePolls() []domain.Poll {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Poll, 0, len(r.polls))
	for _, p := range r.polls {
		if p.Active {
			out = append(out, clonePoll(p))
		}
	}
	return out
}

func (r *Room) pollLocked(pollID string) *domain.Poll {
	for _, p := range r.polls {
		if p.ID == pollID {
			return p
		}
	}
	return nil
}

func (r *Room) AppendNotification(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *Room) Notifications() []domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func clonePoll(p *domain.Poll) domain.Poll {
	c := *p
	c.Options = append([]string(nil), p.Options...)
	c.Results = append([]int(nil), p.Results...)
	c.Voters = append([]domain.UserID(nil), p.Voters...)
	if p.EndsAt != nil {
		ends := *p.EndsAt
		c.EndsAt = &ends
	}
	return c
}
