package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/analytics"
	"study-tracker/internal/domain"
)

// seedStudyData creates two subjects with tasks and sessions:
// Math has one of two tasks done, Physics has all tasks done, and one
// session is logged under a subject that does not exist.
func seedStudyData(t *testing.T, services *ServiceContainer) (math, physics *domain.Subject) {
	t.Helper()
	ctx := context.Background()

	math = createSubject(t, services, "Math")
	physics = createSubject(t, services, "Physics")

	mathTasks := []string{"Exercises", "Revision"}
	for _, title := range mathTasks {
		_, err := services.TaskService.CreateTask(ctx, domain.NewTask(math.ID, title))
		require.NoError(t, err)
	}
	done, err := services.TaskService.CreateTask(ctx, domain.NewTask(physics.ID, "Lab report"))
	require.NoError(t, err)
	_, err = services.TaskService.ToggleTask(ctx, physics.ID, done.ID)
	require.NoError(t, err)

	tasks, err := services.TaskService.ListTasks(ctx, math.ID)
	require.NoError(t, err)
	_, err = services.TaskService.ToggleTask(ctx, math.ID, tasks[0].ID)
	require.NoError(t, err)

	for _, input := range []SessionInput{
		{Subject: "Math", Minutes: 30, Date: "2024-01-10"},
		{Subject: "Math", Minutes: 15, Date: "2024-01-10"},
		{Subject: "Chemistry", Minutes: 60, Date: "2024-01-11"},
	} {
		_, err := services.SessionService.Log(ctx, input)
		require.NoError(t, err)
	}
	return math, physics
}

func TestStatsService_LoadSnapshot(t *testing.T) {
	services, _, _ := setupServices(t)
	math, physics := seedStudyData(t, services)

	snap, err := services.StatsService.LoadSnapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Subjects, 2)
	assert.Len(t, snap.Sessions, 3)
	assert.Len(t, snap.Tasks[math.ID], 2)
	assert.Len(t, snap.Tasks[physics.ID], 1)
}

func TestStatsService_LoadSnapshot_AbandonsOnError(t *testing.T) {
	tests := []struct {
		name  string
		store func(base *failingStore)
	}{
		{name: "task fetch fails", store: func(f *failingStore) { f.failTasks = true }},
		{name: "session fetch fails", store: func(f *failingStore) { f.failSessions = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &failingStore{Store: newTestStore(t)}
			services, _, _ := setupServicesWithStore(t, store)
			seedStudyData(t, services)

			tt.store(store)
			snap, err := services.StatsService.LoadSnapshot(context.Background())
			assert.ErrorIs(t, err, errStoreDown)
			assert.Empty(t, snap.Subjects)
			assert.Nil(t, snap.Tasks)
		})
	}
}

func TestStatsService_Report(t *testing.T) {
	services, _, _ := setupServices(t)
	math, physics := seedStudyData(t, services)

	report, err := services.StatsService.Report(context.Background(), analytics.WindowDay, analytics.GroupDaily)
	require.NoError(t, err)

	require.Equal(t, 7, report.Series.Len())
	assert.Equal(t, "Jan 6", report.Series.Labels[0])
	assert.Equal(t, "Jan 12", report.Series.Labels[6])
	assert.InDelta(t, 0.75, report.Series.Values[4], 1e-9)
	assert.InDelta(t, 1.0, report.Series.Values[5], 1e-9)

	bySubject := map[string]analytics.SubjectPerformance{}
	for _, row := range report.Subjects {
		bySubject[row.SubjectID] = row
	}
	assert.InDelta(t, 0.75, bySubject[math.ID].Hours, 1e-9)
	assert.Equal(t, 2, bySubject[math.ID].Sessions)
	assert.Equal(t, 2, bySubject[math.ID].Tasks)
	assert.Equal(t, 1, bySubject[math.ID].CompletedTasks)
	assert.Zero(t, bySubject[physics.ID].Hours)

	assert.Equal(t, 3, report.Tasks.Total())
	assert.Equal(t, 2, report.Tasks.Completed)
	assert.Equal(t, 2, report.Summary.TotalSubjects)
	assert.Equal(t, 1, report.Summary.CompletedSubjects)
	assert.Equal(t, 3, report.Summary.TotalSessions)
	assert.InDelta(t, 1.75, report.Summary.TotalFocusHours, 1e-9)
	assert.Zero(t, report.Summary.TotalFocusMinutes)

	require.Len(t, report.Completed, 1)
	assert.Equal(t, physics.ID, report.Completed[0].SubjectID)
	require.Len(t, report.Active, 1)
	assert.Equal(t, math.ID, report.Active[0].SubjectID)
}

func TestStatsService_SubjectProgress(t *testing.T) {
	services, _, _ := setupServices(t)
	math, _ := seedStudyData(t, services)

	active, completed, err := services.StatsService.SubjectProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Len(t, completed, 1)
	assert.Equal(t, math.ID, active[0].SubjectID)
	assert.InDelta(t, 50.0, active[0].ProgressPercent, 1e-9)
}

func TestStatsService_Options(t *testing.T) {
	services, _, _ := setupServices(t)

	opts := services.StatsService.Options()
	assert.Equal(t, time.Sunday, opts.WeekStart)
	assert.Equal(t, "UTC", opts.Today.Location().String())
	assert.Equal(t, "2024-01-12", opts.Today.Format(domain.DateLayout))
}
