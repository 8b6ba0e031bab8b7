package app

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/domain"
)

// PostMessage appends a chat line and broadcasts it to the whole room,
// sender included, so every client renders the same log.
func (c *Coordinator) PostMessage(sid domain.SessionID, text string) (domain.ChatMessage, error) {
	room, ms, err := c.roomAndMember(sid)
	if err != nil {
		log.Warn().Str("module", "app.chat").Str("sid", string(sid)).Msg("chat from non-member ignored")
		return domain.ChatMessage{}, err
	}
	msg := domain.NewChatMessage(uuid.NewString(), text, ms.Participant())
	room.AppendMessage(msg, c.ChatWindow)
	broadcast(room, chatMessageEvent{Type: EvtChatMessage, Message: msg})
	return msg, nil
}

// History returns the most recent chat window for the sender's room.
func (c *Coordinator) History(sid domain.SessionID) ([]domain.ChatMessage, error) {
	room, _, err := c.roomAndMember(sid)
	if err != nil {
		return nil, err
	}
	return room.RecentMessages(c.ChatWindow), nil
}
