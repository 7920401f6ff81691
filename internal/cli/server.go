package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"quizzes-service/internal/app"
	"quizzes-service/internal/auth"
	"quizzes-service/internal/config"
	"quizzes-service/internal/logger"
	transport "quizzes-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quizzes API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logger)
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := app.NewPublicationTracker(store)
	users := app.NewUserService(store)
	questions := app.NewQuestionService(store, tracker, log)
	quizzes := app.NewQuizService(store, tracker, log)
	feed := app.NewSolutionFeed()
	solutions := app.NewSolutionService(store, quizzes, questions, feed, log)

	authSvc, err := auth.NewService(users, auth.Config{
		Signature: cfg.JWT.Signature,
		Expiry:    config.Duration(cfg.JWT.Expiry, time.Hour),
	}, log)
	if err != nil {
		return err
	}

	handler := transport.NewHandler(authSvc, users, questions, quizzes, solutions, log)
	wsHandler := transport.NewWSHandler(authSvc, quizzes, feed, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(handler, wsHandler, cfg.CORS.AllowedOrigins, log),
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info("starting quizzes service", zap.String("addr", server.Addr), zap.String("store", cfg.Store.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
