package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rheetham/Student-Record-Management-System/internal/adapters/repository"
	"github.com/rheetham/Student-Record-Management-System/internal/application/services"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/config"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/logger"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/metrics"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/validation"
)

// application holds everything a command needs for one invocation
type application struct {
	cfg     *config.Config
	logger  *logger.Logger
	metrics *metrics.Metrics
	service *services.StudentService
}

func newApplication(cmd *cobra.Command) (*application, error) {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger = appLogger.WithSessionID(uuid.NewString())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	repo := repository.NewFileStudentRepository(cfg.Store.File)
	svc := services.NewStudentService(repo, validation.New(), appLogger, m)

	appLogger.Debugw("Application initialized",
		"app", cfg.App.Name,
		"command", cmd.Name(),
		"file", cfg.Store.File,
		"environment", cfg.App.Environment,
	)

	return &application{
		cfg:     cfg,
		logger:  appLogger,
		metrics: m,
		service: svc,
	}, nil
}

// close writes the metrics textfile when configured and flushes the logger
func (a *application) close() {
	if a.metrics != nil && a.cfg.Metrics.Textfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.WithError(err).Warn("Failed to write metrics")
		}
	}
	_ = a.logger.Close()
}

// withApplication wraps a command body with application setup and teardown
func withApplication(fn func(cmd *cobra.Command, args []string, app *application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer app.close()
		return fn(cmd, args, app)
	}
}
