package domain

import "time"

// SystemSender marks room-generated chat lines (moderation notices and the
// like) that have no participant behind them.
const SystemSender UserID = "system"

// ChatMessage is immutable once appended to a room's log.
type ChatMessage struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	SenderSessionID SessionID `json:"senderSessionId"`
	SenderUserID    UserID    `json:"senderUserId"`
	SenderName      string    `json:"senderName"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewChatMessage(id string, text string, from *Participant) ChatMessage {
	return ChatMessage{
		ID:              id,
		Text:            text,
		SenderSessionID: from.SessionID,
		SenderUserID:    from.UserID,
		SenderName:      from.DisplayName,
		Timestamp:       time.Now(),
	}
}

func NewSystemMessage(id string, text string) ChatMessage {
	return ChatMessage{
		ID:           id,
		Text:         text,
		SenderUserID: SystemSender,
		SenderName:   string(SystemSender),
		Timestamp:    time.Now(),
	}
}
