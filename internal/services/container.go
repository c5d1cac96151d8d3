package services

import (
	"context"
	"sync"
	"time"

	"study-tracker/internal/config"
	"study-tracker/internal/logging"
	"study-tracker/internal/notify"
	"study-tracker/internal/repository"
	"study-tracker/internal/validation"
)

// Deps are the collaborators shared by all services. Store and Config are
// required.
type Deps struct {
	Store    repository.Store
	Config   *config.Config
	Logger   logging.Logger
	Notifier notify.Notifier
	Clock    func() time.Time
}

// base carries what every service needs
type base struct {
	store    repository.Store
	cfg      *config.Config
	userID   string
	logger   logging.Logger
	notifier notify.Notifier
	now      func() time.Time
	loc      *time.Location
	changes  *Changes
}

// NewServiceContainer wires all services for the configured user
func NewServiceContainer(deps Deps) *ServiceContainer {
	b := newBase(deps)
	v := validation.NewValidatorWithConfig(deps.Config)

	return &ServiceContainer{
		SubjectService: &subjectServiceImpl{base: b, validator: validation.NewSubjectValidator(v)},
		TaskService: &taskServiceImpl{
			base:      b,
			validator: validation.NewTaskValidator(v),
			subjects:  validation.NewSubjectValidator(v),
		},
		SessionService: &sessionServiceImpl{base: b, validator: validation.NewSessionValidator(v)},
		StatsService:   &statsServiceImpl{base: b},
		Changes:        b.changes,
	}
}

func newBase(deps Deps) *base {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	b := &base{
		store:    deps.Store,
		cfg:      cfg,
		userID:   cfg.Application.UserID,
		logger:   deps.Logger,
		notifier: deps.Notifier,
		now:      deps.Clock,
		changes:  &Changes{},
	}
	if b.logger == nil {
		b.logger = logging.Nop()
	}
	if b.notifier == nil {
		b.notifier = notify.Nop{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	loc, err := cfg.Location()
	if err != nil {
		b.logger.Warn("unknown timezone, using local time", "timezone", cfg.Stats.Timezone, "err", err)
		loc = time.Local
	}
	b.loc = loc
	return b
}

// today returns the current instant in the configured timezone
func (b *base) today() time.Time {
	return b.now().In(b.loc)
}

func (b *base) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, b.cfg.Database.QueryTimeout)
}

func (b *base) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, b.cfg.Database.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Changes counts writes that affect statistics and tells listeners about them.
type Changes struct {
	mu        sync.Mutex
	count     uint64
	nextID    int
	listeners map[int]func()
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (c *Changes) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[int]func())
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Notify records a change and calls every listener
func (c *Changes) Notify() {
	c.mu.Lock()
	c.count++
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Count returns the number of changes so far
func (c *Changes) Count() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
