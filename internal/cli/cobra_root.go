package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"
	"study-tracker/internal/services"
)

// BootstrapFunc builds the App once flags are parsed. The returned cleanup
// releases the store, cache and notifier.
type BootstrapFunc func(ctx context.Context, overrides *config.ConfigOverrides) (*App, func(), error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	app       *App
	bootstrap BootstrapFunc
	cleanup   func()
}

// NewRootCommand creates the root cobra command; bootstrap runs before the
// first subcommand.
func NewRootCommand(bootstrap BootstrapFunc) *RootCommand {
	root := &RootCommand{bootstrap: bootstrap}
	root.build()
	return root
}

// NewRootCommandWithApp creates the root command around a ready App
func NewRootCommandWithApp(app *App) *RootCommand {
	root := &RootCommand{app: app}
	root.build()
	return root
}

func (r *RootCommand) build() {
	r.cmd = &cobra.Command{
		Use:   "st",
		Short: "A command-line study tracker",
		Long: `Study Tracker (st) keeps subjects, tasks and focus sessions and turns
them into statistics.

EXAMPLES:
  st subject add "Math" --timer              # Add a subject used by the timer
  st task add SUBJECT_ID "Read chapter 3"    # Add a task
  st focus 25m                               # Run a 25 minute focus countdown
  st session log --minutes 45 --subject Math # Log a session by hand
  st stats --window month --group weekly     # Focus hours for the last 30 days
  st stats --format csv > stats.csv          # Export the report
  st watch                                   # Keep the statistics on screen

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > env file (~/.study/study.env or $STUDY_ENV_FILE) > defaults

    STUDY_DB_BACKEND                       sqlite or postgres (default: sqlite)
    STUDY_DB_DIR                           Database directory (default: ~/.study)
    STUDY_DB_POSTGRES_URL                  Postgres connection string
    STUDY_CACHE_BACKEND                    none, memory or redis (default: memory)
    STUDY_STATS_TIMEZONE                   Timezone of "today" (default: Local)
    STUDY_STATS_WEEK_START                 First day of the week (default: sunday)
    STUDY_NOTIFY_DESKTOP                   Desktop notifications (default: true)
    STUDY_APP_TIMEOUT                      Per-command timeout (default: 60s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.ensureApp(cmd)
		},
	}

	r.addGlobalFlags()
	r.addSubcommands()
}

// Command exposes the cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases what bootstrap acquired
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	defer r.close()
	r.cmd.SetArgs(args)
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) close() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
}

func (r *RootCommand) ensureApp(cmd *cobra.Command) error {
	if r.app != nil {
		return nil
	}
	if r.bootstrap == nil {
		return fmt.Errorf("application not initialized")
	}
	app, cleanup, err := r.bootstrap(cmd.Context(), r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.app, r.cleanup = app, cleanup
	return nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("user", "", "User the data belongs to (overrides STUDY_USER)")

	// Database configuration
	flags.String("backend", "", "Storage backend, sqlite or postgres (overrides STUDY_DB_BACKEND)")
	flags.String("db-dir", "", "Database directory (overrides STUDY_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides STUDY_DB_FILENAME)")
	flags.String("postgres-url", "", "Postgres connection string (overrides STUDY_DB_POSTGRES_URL)")

	// Cache configuration
	flags.String("cache", "", "Report cache, none, memory or redis (overrides STUDY_CACHE_BACKEND)")
	flags.String("redis-addr", "", "Redis address (overrides STUDY_CACHE_REDIS_ADDR)")

	// Statistics configuration
	flags.String("timezone", "", "Timezone used for today (overrides STUDY_STATS_TIMEZONE)")
	flags.String("week-start", "", "First day of the week (overrides STUDY_STATS_WEEK_START)")

	// Application configuration
	flags.Bool("desktop-notify", false, "Show desktop notifications (overrides STUDY_NOTIFY_DESKTOP)")
	flags.Duration("timeout", 0, "Per-command timeout (overrides STUDY_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides STUDY_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides STUDY_LOG_LEVEL)")
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.UserID = str("user")
	o.Backend = str("backend")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.PostgresURL = str("postgres-url")
	o.CacheBackend = str("cache")
	o.RedisAddr = str("redis-addr")
	o.Timezone = str("timezone")
	o.WeekStart = str("week-start")
	o.Desktop = boolean("desktop-notify")
	o.Verbose = boolean("verbose")
	o.LogLevel = str("log-level")
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		o.Timeout = &v
	}
	return o
}

// getAppTimeout returns the configured per-command timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// withTimeout runs fn under the per-command timeout
func (r *RootCommand) withTimeout(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return fn(ctx)
}

// optionalString returns the flag value only when it was set
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.subjectCommand(),
		r.taskCommand(),
		r.sessionCommand(),
		r.focusCommand(),
		r.statsCommand(),
		r.watchCommand(),
	)
}

func (r *RootCommand) subjectCommand() *cobra.Command {
	subjectCmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			timer, _ := cmd.Flags().GetBool("timer")
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSubjectCommand(r.app).Add(ctx, args[0], description, timer)
			})
		},
	}
	addCmd.Flags().String("description", "", "Subject description")
	addCmd.Flags().Bool("timer", false, "Offer this subject to the focus timer")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, NewSubjectCommand(r.app).List)
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit := SubjectEdit{
				Name:        optionalString(cmd, "name"),
				Description: optionalString(cmd, "description"),
				UseForTimer: optionalBool(cmd, "timer"),
			}
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSubjectCommand(r.app).Edit(ctx, args[0], edit)
			})
		},
	}
	editCmd.Flags().String("name", "", "New name")
	editCmd.Flags().String("description", "", "New description")
	editCmd.Flags().Bool("timer", false, "Offer this subject to the focus timer")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a subject and its tasks",
		Long:  "Delete a subject and all of its tasks. Logged sessions are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSubjectCommand(r.app).Delete(ctx, args[0])
			})
		},
	}

	subjectCmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd)
	return subjectCmd
}

func taskFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "Task description")
	cmd.Flags().String("deadline", "", "Deadline date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Deadline time of day (HH:MM)")
	cmd.Flags().Int("estimate", 0, "Estimated minutes")
}

func taskFields(cmd *cobra.Command) TaskFields {
	return TaskFields{
		Title:       optionalString(cmd, "title"),
		Description: optionalString(cmd, "description"),
		Deadline:    optionalString(cmd, "deadline"),
		Time:        optionalString(cmd, "time"),
		Estimate:    optionalInt(cmd, "estimate"),
	}
}

func (r *RootCommand) taskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of a subject",
	}

	addCmd := &cobra.Command{
		Use:   "add SUBJECT_ID TITLE",
		Short: "Add a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := taskFields(cmd)
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTaskCommand(r.app).Add(ctx, args[0], args[1], fields)
			})
		},
	}
	taskFieldFlags(addCmd)

	listCmd := &cobra.Command{
		Use:   "list SUBJECT_ID",
		Short: "List the tasks of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTaskCommand(r.app).List(ctx, args[0])
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle SUBJECT_ID TASK_ID",
		Short: "Mark a task completed or pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTaskCommand(r.app).Toggle(ctx, args[0], args[1])
			})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit SUBJECT_ID TASK_ID",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := taskFields(cmd)
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTaskCommand(r.app).Edit(ctx, args[0], args[1], fields)
			})
		},
	}
	editCmd.Flags().String("title", "", "New title")
	taskFieldFlags(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete SUBJECT_ID TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTaskCommand(r.app).Delete(ctx, args[0], args[1])
			})
		},
	}

	taskCmd.AddCommand(addCmd, listCmd, toggleCmd, editCmd, deleteCmd)
	return taskCmd
}

func (r *RootCommand) sessionCommand() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Log and list focus sessions",
	}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a session by hand",
		Long: `Log a focus session by hand.

Examples:
  st session log --minutes 30                      # Default subject, today
  st session log --minutes 1 --seconds 30 --subject Math --date 2024-01-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, _ := cmd.Flags().GetInt("minutes")
			seconds, _ := cmd.Flags().GetInt("seconds")
			subject, _ := cmd.Flags().GetString("subject")
			date, _ := cmd.Flags().GetString("date")
			input := services.SessionInput{
				Subject: subject,
				Minutes: minutes,
				Seconds: seconds,
				Date:    date,
				At:      timeNow(),
			}
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).Log(ctx, input)
			})
		},
	}
	logCmd.Flags().Int("minutes", 0, "Minutes studied")
	logCmd.Flags().Int("seconds", 0, "Seconds studied (0-59)")
	logCmd.Flags().String("subject", "", "Subject name (default: configured default subject)")
	logCmd.Flags().String("date", "", "Date studied, YYYY-MM-DD (default: today)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			filter := domain.SessionFilter{
				From:    optionalString(cmd, "from"),
				To:      optionalString(cmd, "to"),
				Subject: optionalString(cmd, "subject"),
				Limit:   limit,
			}
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).List(ctx, filter)
			})
		},
	}
	listCmd.Flags().Int("limit", 20, "Maximum sessions to show (0 for all)")
	listCmd.Flags().String("from", "", "First date to include (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "Last date to include (YYYY-MM-DD)")
	listCmd.Flags().String("subject", "", "Only sessions of this subject")

	sessionCmd.AddCommand(logCmd, listCmd)
	return sessionCmd
}

func (r *RootCommand) focusCommand() *cobra.Command {
	focusCmd := &cobra.Command{
		Use:   "focus [DURATION]",
		Short: "Run a focus countdown",
		Long: `Run a focus countdown and log it as a session when it reaches zero.
Quitting early logs nothing.

DURATION is a Go duration or a number of minutes (default: configured focus minutes).

Examples:
  st focus                # Configured focus length
  st focus 50             # 50 minutes
  st focus 1h --subject Physics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) > 0 {
				raw = args[0]
			}
			duration, err := ParseFocusDuration(raw, r.app.config.Session.FocusMinutes)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			// The countdown is interactive; only interruption ends it.
			return NewFocusCommand(r.app).Run(cmd.Context(), subject, duration)
		},
	}
	focusCmd.Flags().String("subject", "", "Subject to log the session under")
	return focusCmd
}

func statsFlags(cmd *cobra.Command) {
	cmd.Flags().String("window", "", "Window: day (last 7 days), month (30) or year (365)")
	cmd.Flags().String("group", "", "Grouping: daily, weekly or subject")
}

func statsOptions(cmd *cobra.Command) StatsOptions {
	window, _ := cmd.Flags().GetString("window")
	group, _ := cmd.Flags().GetString("group")
	format, _ := cmd.Flags().GetString("format")
	return StatsOptions{Window: window, Group: group, Format: format}
}

func (r *RootCommand) statsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		Long: `Show focus hours, per-subject performance and task progress.

Examples:
  st stats                           # Last 7 days, one bar per day
  st stats --window month --group weekly
  st stats --group subject           # All-time hours per subject
  st stats --format json             # json, yaml or csv for export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := statsOptions(cmd)
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewStatsCommand(r.app).Show(ctx, opts)
			})
		},
	}
	statsFlags(statsCmd)
	statsCmd.Flags().String("format", FormatText, "Output format: text, json, yaml or csv")
	return statsCmd
}

func (r *RootCommand) watchCommand() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the statistics on screen",
		Long:  "Recompute the statistics periodically and after every change, until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewWatchCommand(r.app).Run(cmd.Context(), statsOptions(cmd))
		},
	}
	statsFlags(watchCmd)
	return watchCmd
}
