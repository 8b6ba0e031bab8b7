package domain

import (
	"errors"
	"time"
)

var (
	ErrPollQuestionEmpty = errors.New("poll question empty")
	ErrPollTooFewOptions = errors.New("poll needs at least two options")
)

// Poll is a single-choice question scoped to a room. Results and voters are
// mutated only under the owning room's lock; len(Results) == len(Options)
// always holds and a user id appears in Voters at most once.
type Poll struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	Results   []int      `json:"results"`
	Voters    []UserID   `json:"voters"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

func NewPoll(id, question string, options []string, duration time.Duration) (*Poll, error) {
	if question == "" {
		return nil, ErrPollQuestionEmpty
	}
	if len(options) < 2 {
		return nil, ErrPollTooFewOptions
	}
	p := &Poll{
		ID:        id,
		Question:  question,
		Options:   options,
		Results:   make([]int, len(options)),
		Voters:    make([]UserID, 0),
		Active:    true,
		CreatedAt: time.Now(),
	}
	if duration > 0 {
		ends := p.CreatedAt.Add(duration)
		p.EndsAt = &ends
	}
	return p, nil
}

func (p *Poll) HasVoted(uid UserID) bool {
	for _, v := range p.Voters {
		if v == uid {
			return true
		}
	}
	return false
}
