// pkg/notify/notify.go
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome is the single user-visible result of one mutation: exactly one
// per pipeline call, success or failure, never duplicated, never dropped.
type Outcome struct {
	OK      bool      `json:"ok"`
	Entity  string    `json:"entity"`
	Action  string    `json:"action"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier delivers mutation outcomes to the user they belong to.
type Notifier interface {
	Notify(userID uuid.UUID, outcome Outcome)
}

// Center is the production Notifier: it logs each outcome and keeps a
// bounded per-user history that the notification endpoint reads.
type Center struct {
	log   *logrus.Logger
	limit int

	mu     sync.Mutex
	recent map[uuid.UUID][]Outcome
}

func NewCenter(log *logrus.Logger, limit int) *Center {
	if limit <= 0 {
		limit = 50
	}
	return &Center{
		log:    log,
		limit:  limit,
		recent: make(map[uuid.UUID][]Outcome),
	}
}

func (c *Center) Notify(userID uuid.UUID, outcome Outcome) {
	if outcome.At.IsZero() {
		outcome.At = time.Now().UTC()
	}

	level := logrus.InfoLevel
	if !outcome.OK {
		level = logrus.WarnLevel
	}
	c.log.WithFields(logrus.Fields{
		"user":   userID,
		"entity": outcome.Entity,
		"action": outcome.Action,
		"ok":     outcome.OK,
	}).Log(level, outcome.Message)

	c.mu.Lock()
	defer c.mu.Unlock()
	history := append(c.recent[userID], outcome)
	if len(history) > c.limit {
		history = history[len(history)-c.limit:]
	}
	c.recent[userID] = history
}

// Recent returns the user's outcome history, newest first.
func (c *Center) Recent(userID uuid.UUID) []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := c.recent[userID]
	out := make([]Outcome, len(history))
	for i, o := range history {
		out[len(history)-1-i] = o
	}
	return out
}

// Recorder is a Notifier for tests: it collects everything it is given.
type Recorder struct {
	mu       sync.Mutex
	Outcomes []Outcome
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ uuid.UUID, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outcomes = append(r.Outcomes, outcome)
}

// Last returns the most recent outcome, or a zero Outcome when none.
func (r *Recorder) Last() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Outcomes) == 0 {
		return Outcome{}
	}
	return r.Outcomes[len(r.Outcomes)-1]
}

// Count returns how many outcomes were delivered.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Outcomes)
}
