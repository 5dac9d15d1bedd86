package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/regdesk/config"
	"github.com/Eursukkul/regdesk/internal/auth"
	"github.com/Eursukkul/regdesk/internal/consumer"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/Eursukkul/regdesk/internal/service"
	"github.com/Eursukkul/regdesk/pkg/database"
	"github.com/Eursukkul/regdesk/pkg/logger"
	"github.com/Eursukkul/regdesk/pkg/rabbitmq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type ServeOptions struct {
	Port    string
	Migrate bool
}

func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the activity consumer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if opts.Port != "" {
				cfg.ServerPort = opts.Port
			}
			return serve(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (overrides SERVER_PORT)")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "run schema migration before serving")

	return cmd
}

func serve(parent context.Context, cfg *config.Config, opts *ServeOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close(db)

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	fieldRepo := repository.NewCustomFieldRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	var publisher service.Publisher
	consumerDone := closedChan()
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			return fmt.Errorf("connect publisher: %w", err)
		}
		defer pub.Close()
		publisher = pub

		consumerDone, err = startActivityConsumer(ctx, cfg, activityRepo, log)
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, domain events are not published")
	}

	policy := service.Policy{
		RateLimitMax:     cfg.RateLimitMax,
		RateLimitWindow:  cfg.RateLimitWindow,
		DeadlineLocation: cfg.DeadlineTimezone,
	}

	e := NewServer(cfg, log, Services{
		Registration: service.NewRegistrationService(eventRepo, regRepo, fieldRepo, publisher, policy, log),
		Lookup:       service.NewLookupService(eventRepo, regRepo, fieldRepo, log),
		Organizer:    service.NewOrganizerService(eventRepo, regRepo, fieldRepo, profileRepo, activityRepo, publisher, cfg.DefaultMaxSeatLimit, log),
		Verifier:     auth.NewVerifier(cfg.JWTSecret),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("regdesk starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stop()

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("activity consumer did not stop in time")
	}
	return nil
}

func startActivityConsumer(ctx context.Context, cfg *config.Config, repo repository.ActivityRepository, log zerolog.Logger) (<-chan struct{}, error) {
	mq, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.ActivityQueue, rabbitmq.ActivityBindings, log)
	if err != nil {
		return nil, fmt.Errorf("connect consumer: %w", err)
	}

	msgs, err := mq.Consume()
	if err != nil {
		mq.Close()
		return nil, fmt.Errorf("start consuming: %w", err)
	}

	done := consumer.NewActivityConsumer(repo, log).Start(ctx, msgs)
	stopped := make(chan struct{})
	go func() {
		<-done
		mq.Close()
		close(stopped)
	}()
	return stopped, nil
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
