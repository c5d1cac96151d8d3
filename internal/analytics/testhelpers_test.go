package analytics

import (
	"time"

	"study-tracker/internal/domain"
)

var refDay = time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC)

func opts() Options {
	return Options{Today: refDay, WeekStart: time.Sunday}
}

func session(subject, date string, minutes, seconds int) domain.Session {
	return domain.Session{Subject: subject, Date: date, DurationMinutes: minutes, DurationSeconds: seconds}
}

func task(subjectID string, completed bool) domain.Task {
	return domain.Task{SubjectID: subjectID, Title: "t", Completed: completed}
}
