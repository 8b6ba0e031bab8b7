package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/avillegas/aulacall/internal/domain"
)

type nullConn struct{}

func (nullConn) TrySend(Frame) error { return nil }
func (nullConn) Close()              {}

func member(id string) (domain.SessionID, MemberSession) {
	user, _ := domain.NewUser(id, "name-"+id, domain.RoleStudent)
	sid := domain.SessionID("sid-" + id)
	return sid, NewMemberSession(domain.NewParticipant(sid, user), nullConn{})
}

func TestAdmitEnforcesCapacityAtomically(t *testing.T) {
	room := NewRoom("r1")
	for i := 0; i < 2; i++ {
		sid, ms := member(fmt.Sprintf("u%d", i))
		if err := room.Admit(sid, ms, 2); err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
	}
	sid, ms := member("u2")
	if err := room.Admit(sid, ms, 2); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("admit over capacity error = %v, want ErrRoomFull", err)
	}
	if room.MemberCount() != 2 {
		t.Errorf("member count = %d, want 2", room.MemberCount())
	}
}

func TestRemoveClearsUserBinding(t *testing.T) {
	room := NewRoom("r1")
	sid, ms := member("u1")
	_ = room.Admit(sid, ms, 0)

	if _, ok := room.Remove(sid); !ok {
		t.Fatalf("remove reported missing member")
	}
	if _, ok := room.SessionOfUser("u1"); ok {
		t.Errorf("user binding survived removal")
	}
	if _, ok := room.Remove(sid); ok {
		t.Errorf("second remove reported success")
	}
}

func TestSnapshotExcludesRequestedSession(t *testing.T) {
	room := NewRoom("r1")
	sidA, msA := member("a")
	sidB, msB := member("b")
	_ = room.Admit(sidA, msA, 0)
	_ = room.Admit(sidB, msB, 0)

	snap := room.Snapshot(sidA)
	if len(snap) != 1 || snap[0].SessionID != sidB {
		t.Fatalf("snapshot = %+v, want only %s", snap, sidB)
	}
}

func TestChatWindowTruncation(t *testing.T) {
	room := NewRoom("r1")
	sid, ms := member("u1")
	_ = room.Admit(sid, ms, 0)

	for i := 0; i < 60; i++ {
		room.AppendMessage(domain.NewChatMessage(fmt.Sprint(i), fmt.Sprintf("m%d", i), ms.Participant()), 50)
	}
	got := room.RecentMessages(50)
	if len(got) != 50 {
		t.Fatalf("window = %d messages, want 50", len(got))
	}
	if got[0].Text != "m10" || got[49].Text != "m59" {
		t.Errorf("window bounds wrong: first=%q last=%q", got[0].Text, got[49].Text)
	}
}

func TestConcurrentVotesStayConsistent(t *testing.T) {
	room := NewRoom("r1")
	poll, err := domain.NewPoll("p1", "Q?", []string{"X", "Y"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	room.AddPoll(poll)

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := domain.UserID(fmt.Sprintf("u%d", i))
			room.Vote("p1", i%2, uid)
			room.Vote("p1", (i+1)%2, uid) // repeat attempt must lose
		}(i)
	}
	wg.Wait()

	snap, _ := room.PollSnapshot("p1")
	if len(snap.Voters) != voters {
		t.Fatalf("voters = %d, want %d", len(snap.Voters), voters)
	}
	if snap.Results[0]+snap.Results[1] != voters {
		t.Errorf("results sum = %d, want %d", snap.Results[0]+snap.Results[1], voters)
	}
}

func TestPollSnapshotIsDetached(t *testing.T) {
	room := NewRoom("r1")
	poll, _ := domain.NewPoll("p1", "Q?", []string{"X", "Y"}, 0)
	room.AddPoll(poll)

	snap, _ := room.PollSnapshot("p1")
	snap.Results[0] = 99
	snap.Voters = append(snap.Voters, "intruder")

	fresh, _ := room.PollSnapshot("p1")
	if fresh.Results[0] != 0 || len(fresh.Voters) != 0 {
		t.Errorf("mutating a snapshot leaked into room state: %+v", fresh)
	}
}

func TestSharerClearedOnlyByHolder(t *testing.T) {
	room := NewRoom("r1")
	sidA, msA := member("a")
	sidB, msB := member("b")
	_ = room.Admit(sidA, msA, 0)
	_ = room.Admit(sidB, msB, 0)

	room.SetSharing(sidA, true)
	room.SetSharing(sidB, true)
	room.SetSharing(sidA, false) // A stops, B still holds the reference

	sharer, ok := room.Sharer()
	if !ok || sharer.SessionID != sidB {
		t.Errorf("sharer = %+v, want %s", sharer, sidB)
	}
}
