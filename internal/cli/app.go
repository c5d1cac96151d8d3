package cli

import (
	"io"
	"os"
	"time"

	"study-tracker/internal/api"
	"study-tracker/internal/config"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries what every command handler needs
type App struct {
	api    api.StudyAPI
	config *config.Config
	out    io.Writer
	errors *ErrorHandler
}

// NewApp creates a CLI application writing to stdout
func NewApp(studyAPI api.StudyAPI, cfg *config.Config) *App {
	return NewAppWithOutput(studyAPI, cfg, os.Stdout)
}

// NewAppWithOutput creates a CLI application writing to out
func NewAppWithOutput(studyAPI api.StudyAPI, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:    studyAPI,
		config: cfg,
		out:    out,
		errors: NewErrorHandler(),
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(out io.Writer) {
	a.out = out
}
