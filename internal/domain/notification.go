package domain

import "time"

const NotificationTypeInfo = "info"

// Notification is either delivered to a live session right away or parked
// for the target user until their next join.
type Notification struct {
	ID           string    `json:"id"`
	SenderUserID UserID    `json:"senderUserId"`
	SenderName   string    `json:"senderName"`
	Message      string    `json:"message"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewNotification(id string, from *Participant, message, kind string) Notification {
	if kind == "" {
		kind = NotificationTypeInfo
	}
	return Notification{
		ID:           id,
		SenderUserID: from.UserID,
		SenderName:   from.DisplayName,
		Message:      message,
		Type:         kind,
		Timestamp:    time.Now(),
	}
}
