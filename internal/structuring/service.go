package structuring

import (
	"context"
	"encoding/json"
	"strings"

	"timetable-backend/internal/shared/telemetry"
)

// Service turns extracted plain text into a validated timetable payload.
// It never fails hard: when the model output cannot be used, the caller
// gets a degraded fallback result with an empty seven-day schedule.
type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

// Structure asks the language model to convert extracted text into a
// timetable JSON document and validates it against the schema.
func (s *Service) Structure(ctx context.Context, text string) Result {
	if s.client == nil {
		return fallbackResult("structuring client is not configured")
	}

	raw, err := s.client.Complete(ctx, BuildPrompt(text))
	if err != nil {
		telemetry.Warn("structuring.complete_failed", map[string]any{"error": err.Error()})
		return fallbackResult("language model request failed: " + err.Error())
	}

	cleaned := stripCodeFence(raw)
	if err := ValidateAgainstSchema(BuildTimetableJSONSchema(), []byte(cleaned)); err != nil {
		telemetry.Warn("structuring.schema_mismatch", map[string]any{"error": err.Error()})
		return fallbackResult("model output did not match timetable schema: " + err.Error())
	}

	var p payload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		telemetry.Warn("structuring.decode_failed", map[string]any{"error": err.Error()})
		return fallbackResult("model output could not be decoded: " + err.Error())
	}

	schedule := make(map[string][]TimeBlock, len(Weekdays))
	for _, day := range Weekdays {
		blocks := p.Schedule[day]
		if blocks == nil {
			blocks = []TimeBlock{}
		}
		schedule[day] = blocks
	}

	return Result{
		Title:    strings.TrimSpace(p.Title),
		Schedule: schedule,
		Raw:      json.RawMessage(cleaned),
	}
}

// fallbackResult builds the degraded shape returned when structuring
// cannot produce a usable schedule. Every weekday is present and empty.
func fallbackResult(reason string) Result {
	schedule := make(map[string][]TimeBlock, len(Weekdays))
	for _, day := range Weekdays {
		schedule[day] = []TimeBlock{}
	}
	return Result{
		Title:          "Extracted Timetable",
		Schedule:       schedule,
		Degraded:       true,
		DegradedReason: reason,
	}
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
