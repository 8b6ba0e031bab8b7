package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/avillegas/aulacall/internal/domain"
)

func TestRelayDeliversToTargetOnly(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, connA := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)
	sidB, connB := join(t, c, "r1", "u2", "Beto", domain.RoleStudent)
	_, connC := join(t, c, "r1", "u3", "Carla", domain.RoleStudent)

	payload := json.RawMessage(`{"sdp":"v=0..."}`)
	if err := c.Relay("offer", sidA, sidB, payload); err != nil {
		t.Fatalf("relay: %v", err)
	}

	evt, ok := connB.lastOfType(t, "offer")
	if !ok {
		t.Fatalf("target never received the offer")
	}
	if evt["from"] != string(sidA) {
		t.Errorf("offer from %v, want %s", evt["from"], sidA)
	}
	sender, _ := evt["sender"].(map[string]any)
	if sender["id"] != "u1" {
		t.Errorf("sender identity %v, want u1", sender["id"])
	}
	if n := connC.countType(t, "offer"); n != 0 {
		t.Errorf("bystander received %d offers, want 0 (no leakage)", n)
	}
	if n := connA.countType(t, "offer"); n != 0 {
		t.Errorf("sender received its own offer back")
	}
}

func TestRelayPayloadPassesThroughVerbatim(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)
	sidB, connB := join(t, c, "r1", "u2", "Beto", domain.RoleStudent)

	raw := `{"candidate":"candidate:1 1 UDP 2122252543 192.0.2.1 54321 typ host","sdpMid":"0"}`
	if err := c.Relay("ice-candidate", sidA, sidB, json.RawMessage(raw)); err != nil {
		t.Fatalf("relay: %v", err)
	}
	evt, ok := connB.lastOfType(t, "ice-candidate")
	if !ok {
		t.Fatalf("candidate not delivered")
	}
	got, _ := json.Marshal(evt["payload"])
	var want, have map[string]any
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(got, &have); err != nil {
		t.Fatal(err)
	}
	if have["candidate"] != want["candidate"] || have["sdpMid"] != want["sdpMid"] {
		t.Errorf("payload altered in transit: %s", got)
	}
}

func TestRelayToUnknownTargetLeaksNothing(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)
	_, connB := join(t, c, "r1", "u2", "Beto", domain.RoleStudent)

	err := c.Relay("answer", sidA, "gone", json.RawMessage(`{}`))
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("relay error = %v, want ErrInvalidReference", err)
	}
	if n := connB.countType(t, "answer"); n != 0 {
		t.Errorf("misaddressed answer delivered to another participant")
	}
}

func TestRelayFromNonMemberDropped(t *testing.T) {
	c := newTestCoordinator(0)
	sidB, connB := join(t, c, "r1", "u2", "Beto", domain.RoleStudent)

	err := c.Relay("offer", "stranger", sidB, json.RawMessage(`{}`))
	if !errors.Is(err, ErrNotAMember) {
		t.Fatalf("relay error = %v, want ErrNotAMember", err)
	}
	if n := connB.countType(t, "offer"); n != 0 {
		t.Errorf("offer from non-member was delivered")
	}
}

func TestRelayStaysInsideRoom(t *testing.T) {
	c := newTestCoordinator(0)
	sidA, _ := join(t, c, "r1", "u1", "Ana", domain.RoleInstructor)
	sidX, connX := join(t, c, "r2", "u9", "Zoe", domain.RoleStudent)

	err := c.Relay("offer", sidA, sidX, json.RawMessage(`{}`))
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("cross-room relay error = %v, want ErrInvalidReference", err)
	}
	if n := connX.countType(t, "offer"); n != 0 {
		t.Errorf("signal crossed a room boundary")
	}
}
