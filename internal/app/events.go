package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/core"
	"github.com/avillegas/aulacall/internal/domain"
)

// Outbound event kinds. Signal kinds (offer/answer/ice-candidate) are echoed
// from the inbound message so peers see the same vocabulary the original
// protocol used.
const (
	EvtRoomUsers          = "room-users"
	EvtUserJoined         = "user-joined"
	EvtUserLeft           = "user-left"
	EvtRoomFull           = "room-full"
	EvtRoomError          = "room-error"
	EvtChatMessage        = "chat-message"
	EvtChatHistory        = "chat-history"
	EvtAudioToggled       = "audio-toggled"
	EvtVideoToggled       = "video-toggled"
	EvtHandRaised         = "hand-raised"
	EvtScreenShareStarted = "screen-share-started"
	EvtScreenShareStopped = "screen-share-stopped"
	EvtPollCreated        = "poll-created"
	EvtPollUpdated        = "poll-updated"
	EvtPollClosed         = "poll-closed"
	EvtPollList           = "poll-list"
	EvtNotification       = "notification"
	EvtKicked             = "kicked"
	EvtMuted              = "muted"
	EvtVideoDisabled      = "video-disabled"
	EvtSessionReplaced    = "session-replaced"
)

// RoomUsersEvent, ChatHistoryEvent and PollListEvent are exported because
// they answer synchronous requests, which the adapter writes back itself.
type RoomUsersEvent struct {
	Type         string               `json:"type"`
	Room         domain.RoomID        `json:"room"`
	Participants []domain.Participant `json:"participants"`
}

type userJoinedEvent struct {
	Type        string             `json:"type"`
	Participant domain.Participant `json:"participant"`
}

type userLeftEvent struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	UserID    domain.UserID    `json:"userId"`
}

type signalEvent struct {
	Type    string           `json:"type"`
	From    domain.SessionID `json:"from"`
	Sender  domain.User      `json:"sender"`
	Payload json.RawMessage  `json:"payload"`
}

type chatMessageEvent struct {
	Type    string             `json:"type"`
	Message domain.ChatMessage `json:"message"`
}

type ChatHistoryEvent struct {
	Type     string               `json:"type"`
	Messages []domain.ChatMessage `json:"messages"`
}

type flagEvent struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	UserID    domain.UserID    `json:"userId"`
	Enabled   bool             `json:"enabled"`
}

type screenShareEvent struct {
	Type        string             `json:"type"`
	Participant domain.Participant `json:"participant"`
}

type pollEvent struct {
	Type string      `json:"type"`
	Poll domain.Poll `json:"poll"`
}

type PollListEvent struct {
	Type  string        `json:"type"`
	Polls []domain.Poll `json:"polls"`
}

type notificationEvent struct {
	Type         string              `json:"type"`
	Notification domain.Notification `json:"notification"`
}

// directiveEvent is a targeted moderation order (kicked, muted, video off).
type directiveEvent struct {
	Type string        `json:"type"`
	By   domain.UserID `json:"by"`
}

type sessionReplacedEvent struct {
	Type string `json:"type"`
}

// send encodes and queues one event for a single session. Delivery is
// fire-and-forget; a full or closed connection just drops the frame.
func send(ms core.MemberSession, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("marshal event")
		return
	}
	if err := ms.Signal().TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "app.events").Str("sid", string(ms.Participant().SessionID)).Msg("dropped event")
	}
}

func broadcast(room *core.Room, v any) {
	for _, ms := range room.Sessions() {
		send(ms, v)
	}
}

func broadcastExcept(room *core.Room, exclude domain.SessionID, v any) {
	for _, ms := range room.Sessions() {
		if ms.Participant().SessionID == exclude {
			continue
		}
		send(ms, v)
	}
}
