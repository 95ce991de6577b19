package browser

import (
	"encoding/json"
	"time"
)

// Step records one action the browsing sub-agent took.
type Step struct {
	Number    int
	Action    string
	Arguments json.RawMessage
	Result    string
	Error     string
	URL       string
	Duration  time.Duration
}

// Failed reports whether the action failed.
func (s Step) Failed() bool {
	return s.Error != ""
}

// History is the record of a browsing task.
type History struct {
	Task  string
	Steps []Step

	final string
	done  bool
}

// NewHistory creates an empty history for task.
func NewHistory(task string) *History {
	return &History{Task: task}
}

// Add appends a step.
func (h *History) Add(step Step) {
	h.Steps = append(h.Steps, step)
}

// Complete records the done action's result.
func (h *History) Complete(result string) {
	h.final = result
	h.done = true
}

// IsDone reports whether the task ended with the done action.
func (h *History) IsDone() bool {
	return h != nil && h.done
}

// FinalResult returns the done action's result, or "" when the task never
// finished.
func (h *History) FinalResult() string {
	if h == nil {
		return ""
	}
	return h.final
}

// Errors returns the error of every failed step, in order.
func (h *History) Errors() []string {
	if h == nil {
		return nil
	}
	var errs []string
	for _, step := range h.Steps {
		if step.Failed() {
			errs = append(errs, step.Error)
		}
	}
	return errs
}

// Actions returns the action names in order.
func (h *History) Actions() []string {
	if h == nil {
		return nil
	}
	actions := make([]string, 0, len(h.Steps))
	for _, step := range h.Steps {
		actions = append(actions, step.Action)
	}
	return actions
}

// URLs returns the distinct URLs visited, in first-visit order.
func (h *History) URLs() []string {
	if h == nil {
		return nil
	}
	seen := make(map[string]bool)
	var urls []string
	for _, step := range h.Steps {
		if step.URL == "" || seen[step.URL] {
			continue
		}
		seen[step.URL] = true
		urls = append(urls, step.URL)
	}
	return urls
}
