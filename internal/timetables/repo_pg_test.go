package timetables

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateReturnsGeneratedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO timetables").
		WithArgs("class.png", "Year 3", sqlmock.AnyArg(), sqlmock.AnyArg(), "completed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "upload_date"}).AddRow(int64(7), now))

	created, err := repo.Create(context.Background(), Timetable{
		Filename: "class.png",
		Title:    "Year 3",
		WeekData: WeekSchedule{Days: DaySchedule{Monday: []TimeBlock{{StartTime: "09:00", EndTime: "10:00", Subject: "Maths"}}}},
		Metadata: map[string]any{"fileType": "image"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("expected id 7, got %d", created.ID)
	}
	if !created.UploadDate.Equal(now) {
		t.Fatalf("expected upload date %v, got %v", now, created.UploadDate)
	}
	if created.Status != "completed" {
		t.Fatalf("expected default status completed, got %q", created.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	week := WeekSchedule{Days: DaySchedule{Tuesday: []TimeBlock{{StartTime: "10:00", EndTime: "11:00", Subject: "Art", Teacher: "Ms. Lee"}}}}
	week.Normalize()
	weekJSON, _ := json.Marshal(week)
	metaJSON, _ := json.Marshal(map[string]any{"visionProvider": "groq"})

	mock.ExpectQuery("SELECT id, filename, title, week_data, metadata, status, upload_date").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "title", "week_data", "metadata", "status", "upload_date"}).
			AddRow(int64(3), "tt.pdf", "Spring Term", weekJSON, metaJSON, "completed", now))

	got, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Spring Term" {
		t.Fatalf("expected title Spring Term, got %q", got.Title)
	}
	if len(got.WeekData.Days.Tuesday) != 1 || got.WeekData.Days.Tuesday[0].Teacher != "Ms. Lee" {
		t.Fatalf("unexpected tuesday: %+v", got.WeekData.Days.Tuesday)
	}
	if got.WeekData.Days.Sunday == nil {
		t.Fatal("expected all days normalized to non-nil")
	}
	if got.Metadata["visionProvider"] != "groq" {
		t.Fatalf("unexpected metadata: %v", got.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT id, filename, title, week_data, metadata, status, upload_date").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "title", "week_data", "metadata", "status", "upload_date"}))

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM timetables").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM timetables").
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 6); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	newer := time.Now().UTC()
	older := newer.Add(-time.Hour)

	var empty WeekSchedule
	empty.Normalize()
	weekJSON, _ := json.Marshal(empty)

	mock.ExpectQuery("SELECT id, filename, title, week_data, metadata, status, upload_date").
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "title", "week_data", "metadata", "status", "upload_date"}).
			AddRow(int64(2), "b.png", "B", weekJSON, nil, "completed", newer).
			AddRow(int64(1), "a.png", "A", weekJSON, nil, "completed", older))

	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", out)
	}
}
