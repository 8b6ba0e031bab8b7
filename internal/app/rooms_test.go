package app

import (
	"testing"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

func TestGetOrCreateReturnsSameRoom(t *testing.T) {
	tbl := NewRoomTable()
	a := tbl.GetOrCreate("r1")
	b := tbl.GetOrCreate("r1")
	if a != b {
		t.Fatalf("GetOrCreate returned distinct rooms for the same id")
	}
	if tbl.Count() != 1 {
		t.Errorf("count = %d, want 1", tbl.Count())
	}
}

func TestRemoveIfEmptyKeepsOccupiedRoom(t *testing.T) {
	tbl := NewRoomTable()
	room := tbl.GetOrCreate("r1")

	user, _ := domain.NewUser("u1", "Ana", domain.RoleStudent)
	part := domain.NewParticipant("sid-1", user)
	if err := room.Admit("sid-1", core.NewMemberSession(part, &fakeConn{}), 0); err != nil {
		t.Fatalf("admit: %v", err)
	}

	tbl.RemoveIfEmpty("r1")
	if _, ok := tbl.Get("r1"); !ok {
		t.Fatalf("occupied room was removed")
	}

	room.Remove("sid-1")
	tbl.RemoveIfEmpty("r1")
	if _, ok := tbl.Get("r1"); ok {
		t.Fatalf("empty room was not removed")
	}
}

func TestRemoveIfEmptyUnknownRoom(t *testing.T) {
	tbl := NewRoomTable()
	tbl.RemoveIfEmpty("nope")
}
