package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"
	"study-tracker/internal/repository"
	"study-tracker/internal/repository/sqlite"
)

var refNow = time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return nil
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Application.UserID = "alice"
	cfg.Stats.Timezone = "UTC"
	cfg.Stats.WeekStart = "sunday"
	cfg.Stats.FetchConcurrency = 2
	return cfg
}

func newTestStore(t *testing.T) *sqlite.Repository {
	t.Helper()
	tick := 0
	ids := 0
	repo, err := sqlite.New(":memory:", sqlite.Options{
		Clock: func() time.Time {
			tick++
			return refNow.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%03d", ids)
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupServices(t *testing.T) (*ServiceContainer, *recordingNotifier, repository.Store) {
	t.Helper()
	store := newTestStore(t)
	return setupServicesWithStore(t, store)
}

func setupServicesWithStore(t *testing.T, store repository.Store) (*ServiceContainer, *recordingNotifier, repository.Store) {
	t.Helper()
	notifier := &recordingNotifier{}
	tick := 0
	container := NewServiceContainer(Deps{
		Store:    store,
		Config:   testConfig(),
		Notifier: notifier,
		Clock: func() time.Time {
			tick++
			return refNow.Add(time.Duration(tick) * time.Millisecond)
		},
	})
	return container, notifier, store
}

// failingStore fails selected reads and delegates the rest
type failingStore struct {
	repository.Store
	failTasks    bool
	failSessions bool
	failWrites   bool
}

var errStoreDown = fmt.Errorf("store down")

func (f *failingStore) ListTasks(ctx context.Context, userID, subjectID string) ([]domain.Task, error) {
	if f.failTasks {
		return nil, errStoreDown
	}
	return f.Store.ListTasks(ctx, userID, subjectID)
}

func (f *failingStore) ListSessions(ctx context.Context, userID string, filter domain.SessionFilter) ([]domain.Session, error) {
	if f.failSessions {
		return nil, errStoreDown
	}
	return f.Store.ListSessions(ctx, userID, filter)
}

func (f *failingStore) CreateSession(ctx context.Context, userID string, session domain.Session) (string, error) {
	if f.failWrites {
		return "", errStoreDown
	}
	return f.Store.CreateSession(ctx, userID, session)
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
