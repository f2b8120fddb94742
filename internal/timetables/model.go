package timetables

import (
	"context"
	"time"
)

// TimeBlock is a single scheduled activity within a day.
type TimeBlock struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Subject   string `json:"subject"`
	Location  string `json:"location,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// DaySchedule holds the activities for each day of the week. Every day is
// always present in the JSON representation, empty days as empty arrays.
type DaySchedule struct {
	Monday    []TimeBlock `json:"monday"`
	Tuesday   []TimeBlock `json:"tuesday"`
	Wednesday []TimeBlock `json:"wednesday"`
	Thursday  []TimeBlock `json:"thursday"`
	Friday    []TimeBlock `json:"friday"`
	Saturday  []TimeBlock `json:"saturday"`
	Sunday    []TimeBlock `json:"sunday"`
}

// WeekSchedule is the canonical persisted schedule shape: the seven day
// sequences wrapped in a days object.
type WeekSchedule struct {
	Days DaySchedule `json:"days"`
}

// Normalize replaces nil day slices so marshalling emits arrays, not nulls.
func (w *WeekSchedule) Normalize() {
	for _, day := range []*[]TimeBlock{
		&w.Days.Monday, &w.Days.Tuesday, &w.Days.Wednesday, &w.Days.Thursday,
		&w.Days.Friday, &w.Days.Saturday, &w.Days.Sunday,
	} {
		if *day == nil {
			*day = []TimeBlock{}
		}
	}
}

// Day returns a pointer to the slice for a lowercase weekday name.
func (w *WeekSchedule) Day(name string) *[]TimeBlock {
	switch name {
	case "monday":
		return &w.Days.Monday
	case "tuesday":
		return &w.Days.Tuesday
	case "wednesday":
		return &w.Days.Wednesday
	case "thursday":
		return &w.Days.Thursday
	case "friday":
		return &w.Days.Friday
	case "saturday":
		return &w.Days.Saturday
	case "sunday":
		return &w.Days.Sunday
	default:
		return nil
	}
}

// Timetable is the persisted record for one processed upload.
type Timetable struct {
	ID         int64
	Filename   string
	Title      string
	WeekData   WeekSchedule
	Metadata   map[string]any
	Status     string
	UploadDate time.Time
}

// UploadedDocument describes a spooled upload handed to processing.
type UploadedDocument struct {
	Path         string
	MediaType    string
	OriginalName string
	SizeBytes    int64
}

// ProcessResult is the outcome of extracting and structuring one document.
type ProcessResult struct {
	Title    string
	Week     WeekSchedule
	Metadata map[string]any
}

// Processor turns an uploaded document into a structured week schedule.
type Processor interface {
	Process(ctx context.Context, doc UploadedDocument, provider string) (ProcessResult, error)
}
