package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

type sessionEntry struct {
	UserID   domain.UserID
	RoomID   domain.RoomID
	Session  core.MemberSession
	Cancel   context.CancelFunc
	LastSeen time.Time
}

type bindingKey struct {
	User domain.UserID
	Room domain.RoomID
}

// Registry is the cross-room session bookkeeping: which session currently
// represents a (user, room) pair, per-session liveness stamps for the stale
// sweep, and notifications parked for users with no live session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*sessionEntry
	bindings map[bindingKey]domain.SessionID
	pending  map[domain.UserID][]domain.Notification
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]*sessionEntry),
		bindings: make(map[bindingKey]domain.SessionID),
		pending:  make(map[domain.UserID][]domain.Notification),
	}
}

func (r *Registry) Bind(sid domain.SessionID, uid domain.UserID, rid domain.RoomID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		UserID:   uid,
		RoomID:   rid,
		Session:  sess,
		Cancel:   cancel,
		LastSeen: time.Now(),
	}
	r.bindings[bindingKey{User: uid, Room: rid}] = sid
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid)).Str("room", string(rid)).Msg("bound session")
}

func (r *Registry) Unbind(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return
	}
	key := bindingKey{User: e.UserID, Room: e.RoomID}
	if r.bindings[key] == sid {
		delete(r.bindings, key)
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbound session")
}

// Lookup resolves the live session for a user inside one room, used to
// detect duplicate connections of the same identity.
func (r *Registry) Lookup(uid domain.UserID, rid domain.RoomID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.bindings[bindingKey{User: uid, Room: rid}]
	return sid, ok
}

func (r *Registry) RoomOf(sid domain.SessionID) (domain.RoomID, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return "", nil, false
	}
	return e.RoomID, e.Session, true
}

// Touch refreshes the liveness stamp; called on every inbound frame.
func (r *Registry) Touch(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.LastSeen = time.Now()
	}
}

// Cancel fires the session's cancel func, which tears down its pumps and,
// through the adapter, its connection.
func (r *Registry) Cancel(sid domain.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// Park stores a notification for a user with no live session in the target
// room. It is flushed in full on that user's next successful join.
func (r *Registry) Park(uid domain.UserID, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[uid] = append(r.pending[uid], n)
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Msg("parked notification")
}

// FlushPending returns and clears everything parked for a user.
func (r *Registry) FlushPending(uid domain.UserID) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending[uid]
	delete(r.pending, uid)
	return out
}

// Stale returns sessions idle longer than ttl.
func (r *Registry) Stale(ttl time.Duration) []domain.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cutoff := time.Now().Add(-ttl)
	var out []domain.SessionID
	for sid, e := range r.sessions {
		if e.LastSeen.Before(cutoff) {
			out = append(out, sid)
		}
	}
	return out
}

// RunSweeper evicts stale sessions on a best-effort periodic schedule until
// ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl time.Duration, evict func(domain.SessionID)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stale := r.Stale(ttl)
			for _, sid := range stale {
				log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("evicting stale session")
				evict(sid)
			}
		}
	}
}
