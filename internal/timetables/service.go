package timetables

import (
	"context"

	"timetable-backend/internal/shared/telemetry"
)

// Service contains business logic for timetables.
type Service struct {
	Repo      TimetablesRepo
	Processor Processor
}

// ProcessUpload runs the extraction pipeline on a spooled upload and, only
// when it succeeds, persists the resulting timetable. Nothing is stored for
// failed uploads.
func (s *Service) ProcessUpload(ctx context.Context, doc UploadedDocument, provider string) (Timetable, error) {
	result, err := s.Processor.Process(ctx, doc, provider)
	if err != nil {
		return Timetable{}, err
	}

	result.Week.Normalize()
	created, err := s.Repo.Create(ctx, Timetable{
		Filename: doc.OriginalName,
		Title:    result.Title,
		WeekData: result.Week,
		Metadata: result.Metadata,
	})
	if err != nil {
		return Timetable{}, err
	}

	telemetry.Info("timetable.created", map[string]any{
		"timetableId": created.ID,
		"filename":    created.Filename,
	})
	return created, nil
}

// List returns all stored timetables, newest first.
func (s *Service) List(ctx context.Context) ([]Timetable, error) {
	return s.Repo.List(ctx)
}

// Get returns one timetable by id.
func (s *Service) Get(ctx context.Context, id int64) (Timetable, error) {
	return s.Repo.GetByID(ctx, id)
}

// Delete removes one timetable by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
