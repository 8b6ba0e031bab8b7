package app

import (
	"context"
	"testing"
	"time"

	"github.com/avillegas/aulacall/internal/domain"
)

func TestStaleSweepEvictsIdleSessions(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)
	sidB, _ := join(t, c, "r1", "u2", "Beto", domain.RoleStudent)

	c.Registry.mu.Lock()
	c.Registry.sessions[sidA].LastSeen = time.Now().Add(-10 * time.Minute)
	c.Registry.mu.Unlock()

	stale := c.Registry.Stale(5 * time.Minute)
	if len(stale) != 1 || stale[0] != sidA {
		t.Fatalf("stale = %v, want [%s]", stale, sidA)
	}
	for _, sid := range stale {
		c.Registry.Cancel(sid)
		c.Leave(sid)
	}
	room, ok := c.Rooms.Get("r1")
	if !ok {
		t.Fatalf("room should survive, one member remains")
	}
	if _, still := room.Member(sidA); still {
		t.Errorf("stale session still a member")
	}
	if _, fresh := room.Member(sidB); !fresh {
		t.Errorf("fresh session was evicted")
	}
}

func TestTouchKeepsSessionFresh(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)

	c.Registry.mu.Lock()
	c.Registry.sessions[sidA].LastSeen = time.Now().Add(-10 * time.Minute)
	c.Registry.mu.Unlock()

	c.Registry.Touch(sidA)
	if stale := c.Registry.Stale(5 * time.Minute); len(stale) != 0 {
		t.Errorf("touched session reported stale: %v", stale)
	}
}

func TestSweeperStopsOnContextDone(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, time.Millisecond, time.Minute, func(domain.SessionID) {})
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}

func TestCancelFiresSessionCancelFunc(t *testing.T) {
	c := newTestCoordinator(0)
	user, _ := domain.NewUser("u1", "Ana", domain.RoleInstructor)
	fired := false
	conn := &fakeConn{}
	if _, err := c.Join("sid-1", user, "r1", conn, func() { fired = true }); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !c.Registry.Cancel("sid-1") {
		t.Fatalf("cancel reported unknown session")
	}
	if !fired {
		t.Errorf("cancel func never fired")
	}
	if c.Registry.Cancel("ghost") {
		t.Errorf("cancel of unknown session reported true")
	}
}

func TestBindingClearedOnUnbind(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)

	if _, ok := c.Registry.Lookup("u1", "r1"); !ok {
		t.Fatalf("binding missing after join")
	}
	c.Leave(sidA)
	if _, ok := c.Registry.Lookup("u1", "r1"); ok {
		t.Errorf("binding survived leave")
	}
}
