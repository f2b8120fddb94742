package structuring

import (
	"context"
	"encoding/json"
)

// Weekdays lists the canonical lower-case day keys, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Message is one chat message sent to the language model.
type Message struct {
	Role    string
	Content string
}

// Client abstracts the chat-completion provider.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// TimeBlock is the wire shape the model returns for one schedule entry.
// The persisted shape lives in the timetables package; processing maps
// between the two.
type TimeBlock struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Subject     string `json:"subject"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
	TeacherName string `json:"teacherName,omitempty"`
}

// Result is the outcome of one structuring call. Structure never fails:
// on any error the result degrades to an empty schedule and Degraded is set.
type Result struct {
	Title          string
	Schedule       map[string][]TimeBlock
	Degraded       bool
	DegradedReason string
	Raw            json.RawMessage
}

// payload matches the JSON object the model is instructed to emit.
type payload struct {
	Title    string                 `json:"title,omitempty"`
	Schedule map[string][]TimeBlock `json:"schedule"`
}
