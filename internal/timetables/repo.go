package timetables

import "context"

// TimetablesRepo defines persistence operations for timetables.
type TimetablesRepo interface {
	Create(ctx context.Context, t Timetable) (Timetable, error)
	GetByID(ctx context.Context, id int64) (Timetable, error)
	List(ctx context.Context) ([]Timetable, error)
	Delete(ctx context.Context, id int64) error
}
