package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AbsenceMarker records an absent row for every active employee without attendance on date.
type AbsenceMarker interface {
	MarkAbsentForAll(ctx context.Context, date time.Time) (marked int, alreadyRecorded int, err error)
}

type AttendanceJobs struct {
	marker AbsenceMarker
	loc    *time.Location
	now    func() time.Time
}

func NewAttendanceJobs(marker AbsenceMarker, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{marker: marker, loc: loc, now: time.Now}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, markAbsentSpec string) error {
	return scheduler.AddJob("mark_absent_employees", markAbsentSpec, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes out yesterday in the configured timezone.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now().In(j.loc)
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc).AddDate(0, 0, -1)

	marked, already, err := j.marker.MarkAbsentForAll(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("mark absent for %s: %w", yesterday.Format("2006-01-02"), err)
	}

	slog.Info("Cron: marked absent employees",
		"date", yesterday.Format("2006-01-02"),
		"marked_absent", marked,
		"already_recorded", already,
	)
	return nil
}
