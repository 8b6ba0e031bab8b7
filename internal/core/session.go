package core

import "github.com/avillegas/aulacall/internal/domain"

// MemberSession binds a participant's meta to its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Participant() *domain.Participant
	Signal() SignalConnection
}

type memberSession struct {
	meta *domain.Participant
	conn SignalConnection
}

func NewMemberSession(meta *domain.Participant, conn SignalConnection) MemberSession {
	return &memberSession{meta: meta, conn: conn}
}

func (m *memberSession) Participant() *domain.Participant { return m.meta }
func (m *memberSession) Signal() SignalConnection         { return m.conn }
