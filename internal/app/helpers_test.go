package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

// fakeConn captures outbound frames so tests can assert on delivered events
// without a real websocket.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(fr))
	copy(cp, fr)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("undecodable frame %q: %v", fr, err)
		}
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) countType(t *testing.T, kind string) int {
	t.Helper()
	n := 0
	for _, e := range f.events(t) {
		if e["type"] == kind {
			n++
		}
	}
	return n
}

func (f *fakeConn) lastOfType(t *testing.T, kind string) (map[string]any, bool) {
	t.Helper()
	var found map[string]any
	ok := false
	for _, e := range f.events(t) {
		if e["type"] == kind {
			found = e
			ok = true
		}
	}
	return found, ok
}

func newTestCoordinator(capacity int) *Coordinator {
	return NewCoordinator(capacity, 0)
}

// join admits a fresh session and fails the test on refusal.
func join(t *testing.T, c *Coordinator, roomID, userID, name string, role domain.Role) (domain.SessionID, *fakeConn) {
	t.Helper()
	sid, conn, err := tryJoin(c, roomID, userID, name, role)
	if err != nil {
		t.Fatalf("join %s into %s: %v", userID, roomID, err)
	}
	return sid, conn
}

func tryJoin(c *Coordinator, roomID, userID, name string, role domain.Role) (domain.SessionID, *fakeConn, error) {
	user, err := domain.NewUser(userID, name, role)
	if err != nil {
		return "", nil, err
	}
	sid := domain.SessionID(uuid.NewString())
	conn := &fakeConn{}
	_, err = c.Join(sid, user, domain.RoomID(roomID), conn, func() {})
	return sid, conn, err
}
