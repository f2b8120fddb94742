package timetables

import "time"

// TimetableResponse is the outward-facing representation of a timetable.
type TimetableResponse struct {
	ID         int64          `json:"id"`
	Filename   string         `json:"filename"`
	Title      string         `json:"title"`
	WeekData   WeekSchedule   `json:"weekData"`
	UploadDate string         `json:"uploadDate"`
	Status     string         `json:"status"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func toResponse(t Timetable) TimetableResponse {
	t.WeekData.Normalize()
	return TimetableResponse{
		ID:         t.ID,
		Filename:   t.Filename,
		Title:      t.Title,
		WeekData:   t.WeekData,
		UploadDate: t.UploadDate.UTC().Format(time.RFC3339),
		Status:     t.Status,
		Metadata:   t.Metadata,
	}
}

func toResponseList(ts []Timetable) []TimetableResponse {
	out := make([]TimetableResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toResponse(t))
	}
	return out
}
