package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

// RoomTable owns the room-id to room mapping. Rooms are created lazily on
// first join and deleted on the transition back to zero participants, so a
// room exists here iff it has at least one member.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.Room
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*core.Room)}
}

func (t *RoomTable) GetOrCreate(id domain.RoomID) *core.Room {
	t.mu.RLock()
	room, ok := t.rooms[id]
	t.mu.RUnlock()
	if ok {
		return room
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if room, ok = t.rooms[id]; ok {
		return room
	}
	room = core.NewRoom(id)
	t.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (t *RoomTable) Get(id domain.RoomID) (*core.Room, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[id]
	return room, ok
}

// RemoveIfEmpty deletes the entry iff the room has no participants. Called
// after every departure.
func (t *RoomTable) RemoveIfEmpty(id domain.RoomID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok || room.MemberCount() > 0 {
		return
	}
	delete(t.rooms, id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room removed (empty)")
}

func (t *RoomTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
