// Package notify delivers short user-facing messages. Delivery never blocks
// or fails the caller's operation.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"study-tracker/internal/logging"
)

// Notifier shows a message to the user
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends native desktop notifications.
type Desktop struct{}

// NewDesktop sets the application name shown by the notification daemon.
func NewDesktop(appName string) Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return Desktop{}
}

// Notify shows a desktop notification
func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Log writes notifications to a logger.
type Log struct {
	logger logging.Logger
}

// NewLog creates a notifier that logs at info level
func NewLog(logger logging.Logger) Log {
	if logger == nil {
		logger = logging.Nop()
	}
	return Log{logger: logger}
}

// Notify logs the message
func (l Log) Notify(title, message string) error {
	l.logger.Info(message, "title", title)
	return nil
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }

// Async delivers notifications on background goroutines. Failures, including
// panics in the underlying notifier, are logged and dropped.
type Async struct {
	next   Notifier
	logger logging.Logger
	wg     sync.WaitGroup
}

// NewAsync wraps next
func NewAsync(next Notifier, logger logging.Logger) *Async {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Async{next: next, logger: logger}
}

// Notify returns immediately.
func (a *Async) Notify(title, message string) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.logger.Warn("notification panicked", "title", title, "panic", r)
			}
		}()
		if err := a.next.Notify(title, message); err != nil {
			a.logger.Warn("notification failed", "title", title, "err", err)
		}
	}()
	return nil
}

// Wait blocks until every pending notification has been delivered or dropped.
func (a *Async) Wait() {
	a.wg.Wait()
}
