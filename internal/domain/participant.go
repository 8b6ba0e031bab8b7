package domain

import "time"

type SessionID string

// Participant is one live connection of a user inside a room. The session id
// is assigned by the transport layer; the user id persists across reconnects.
type Participant struct {
	SessionID     SessionID `json:"sessionId"`
	UserID        UserID    `json:"userId"`
	DisplayName   string    `json:"displayName"`
	Role          Role      `json:"role"`
	JoinedAt      time.Time `json:"joinedAt"`
	AudioEnabled  bool      `json:"audioEnabled"`
	VideoEnabled  bool      `json:"videoEnabled"`
	HandRaised    bool      `json:"handRaised"`
	ScreenSharing bool      `json:"screenSharing"`
}

// NewParticipant avoids raw literals in adapters and keeps the join-time
// defaults (media on, hand down) in one place.
func NewParticipant(sid SessionID, user *User) *Participant {
	return &Participant{
		SessionID:    sid,
		UserID:       user.ID,
		DisplayName:  user.Name,
		Role:         user.Role,
		JoinedAt:     time.Now(),
		AudioEnabled: true,
		VideoEnabled: true,
	}
}

func (p *Participant) IsInstructor() bool {
	return p.Role == RoleInstructor
}
