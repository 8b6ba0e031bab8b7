package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avillegas/aulacall/internal/app"
	"github.com/avillegas/aulacall/internal/domain"
)

func (ctl *Controller) handlePollCreate(sid domain.SessionID, data []byte) {
	var p struct {
		Type            string   `json:"type"`
		Question        string   `json:"question"`
		Options         []string `json:"options"`
		DurationMinutes int      `json:"durationMinutes"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad poll-create payload")
		return
	}
	_, _ = ctl.Coord.CreatePoll(sid, p.Question, p.Options, p.DurationMinutes)
}

func (ctl *Controller) handlePollVote(sid domain.SessionID, data []byte) {
	var p struct {
		Type        string `json:"type"`
		PollID      string `json:"pollId"`
		OptionIndex int    `json:"optionIndex"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad poll-vote payload")
		return
	}
	_ = ctl.Coord.Vote(sid, p.PollID, p.OptionIndex)
}

func (ctl *Controller) handlePollClose(sid domain.SessionID, data []byte) {
	var p struct {
		Type   string `json:"type"`
		PollID string `json:"pollId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad poll-close payload")
		return
	}
	_ = ctl.Coord.ClosePoll(sid, p.PollID)
}

func (ctl *Controller) handlePollList(sid domain.SessionID, c *WsConn) {
	polls, err := ctl.Coord.ActivePolls(sid)
	if err != nil {
		return
	}
	ctl.sendJSON(c, app.PollListEvent{
		Type:  app.EvtPollList,
		Polls: polls,
	})
}
