package solver

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HistoricSolution is a recorded solution: routes by customer index plus the
// penalised cost at the time of recording.
type HistoricSolution struct {
	Routes [][]int
	Cost   float64
}

// HistoryEntry is a "new best feasible" event.
type HistoryEntry struct {
	Solution  HistoricSolution
	Timestamp time.Duration
}

// HistoryMessage is a free-text progress message.
type HistoryMessage struct {
	Timestamp time.Duration
	Message   string
}

// SearchHistory collects the best-solution trajectory and progress messages
// of one solver run. Each run carries a unique identifier used as a logging
// field so interleaved runs can be told apart.
type SearchHistory struct {
	// RunID tags every log line of this run.
	RunID uuid.UUID

	// BestCost is the cost of the latest recorded solution.
	BestCost float64

	startTime time.Time
	entries   []HistoryEntry
	messages  []HistoryMessage
	logger    *logrus.Entry
}

// NewSearchHistory starts an empty history anchored at startTime.
func NewSearchHistory(startTime time.Time) *SearchHistory {
	id := uuid.New()
	return &SearchHistory{
		RunID:     id,
		BestCost:  inf,
		startTime: startTime,
		logger:    logrus.WithField("run_id", id),
	}
}

// StartTime returns the anchor of all history timestamps.
func (h *SearchHistory) StartTime() time.Time {
	return h.startTime
}

// Elapsed returns the wall-clock time since the run started.
func (h *SearchHistory) Elapsed() time.Duration {
	return time.Since(h.startTime)
}

// Add records a new best solution. Only the latest entry keeps its routes;
// earlier entries retain cost and timestamp only.
func (h *SearchHistory) Add(routes [][]int, cost float64) {
	h.BestCost = cost
	if last := len(h.entries) - 1; last >= 0 {
		h.entries[last].Solution.Routes = nil
	}
	copied := make([][]int, len(routes))
	for i, route := range routes {
		copied[i] = append([]int(nil), route...)
	}
	h.entries = append(h.entries, HistoryEntry{
		Solution:  HistoricSolution{Routes: copied, Cost: cost},
		Timestamp: h.Elapsed(),
	})
}

// AddMessage records and logs a progress message.
func (h *SearchHistory) AddMessage(message string) {
	ts := h.Elapsed()
	h.messages = append(h.messages, HistoryMessage{Timestamp: ts, Message: message})
	h.logger.WithField("t", ts.Round(time.Millisecond)).Info(message)
}

// LastEntry returns the most recent entry, or nil when none was recorded.
func (h *SearchHistory) LastEntry() *HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	return &h.entries[len(h.entries)-1]
}

// Entries returns all recorded entries in order.
func (h *SearchHistory) Entries() []HistoryEntry {
	return h.entries
}

// Messages returns all recorded messages in order.
func (h *SearchHistory) Messages() []HistoryMessage {
	return h.messages
}
