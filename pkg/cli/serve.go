package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/argus/pkg/cli/config"
	"github.com/secmon-lab/argus/pkg/controller/server"
	"github.com/secmon-lab/argus/pkg/infra"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/errutil"
	"github.com/secmon-lab/argus/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr string

		githubCfg   config.GitHub
		relayCfg    config.Relay
		notifyCfg   config.Notify
		pipelineCfg config.Pipeline
		sentryCfg   config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("ARGUS_ADDR"),
			Destination: &addr,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			githubCfg.Flags(),
			relayCfg.Flags(),
			notifyCfg.Flags(),
			pipelineCfg.Flags(),
			sentryCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("GitHub", githubCfg),
				slog.Any("Relay", relayCfg),
				slog.Any("Notify", notifyCfg),
				slog.Any("Pipeline", pipelineCfg),
				slog.Any("Sentry", sentryCfg),
			)

			if err := sentryCfg.Configure(ctx); err != nil {
				return err
			}

			ghClient, err := githubCfg.NewClient(ctx)
			if err != nil {
				return err
			}
			clients := infra.New(infra.WithGitHubClient(ghClient))

			engine := pipelineCfg.NewEngine()
			defer engine.Close()

			dispatcher, feed, err := notifyCfg.Build(clients)
			if err != nil {
				return err
			}

			workflowFile, workflowRef := githubCfg.Workflow()
			ucOptions := []usecase.Option{
				usecase.WithEngine(engine),
				usecase.WithDispatcher(dispatcher),
				usecase.WithFeed(feed),
				usecase.WithOrg(githubCfg.Org()),
				usecase.WithWorkflow(workflowFile, workflowRef),
			}

			if relayCfg.Enabled() {
				conn := relayCfg.NewConn()
				ucOptions = append(ucOptions, usecase.WithConnectionState(conn.State))

				uc := usecase.New(clients, ucOptions...)
				conn.Subscribe(uc.ConnectionEventSink())
				if err := conn.Connect(ctx); err != nil {
					return err
				}
				defer func() {
					if err := conn.Close(); err != nil {
						logging.Default().Warn("fail to close relay connection", "error", err)
					}
				}()

				return runServer(ctx, addr, uc, &githubCfg, &pipelineCfg)
			}

			uc := usecase.New(clients, ucOptions...)
			return runServer(ctx, addr, uc, &githubCfg, &pipelineCfg)
		},
	}
}

func runServer(ctx context.Context, addr string, uc *usecase.UseCase, githubCfg *config.GitHub, pipelineCfg *config.Pipeline) error {
	s := server.New(uc, server.WithWebhookSecret(githubCfg.Secret()))

	// background repository polling
	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	if interval := pipelineCfg.SyncInterval(); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-pollCtx.Done():
					return
				case <-ticker.C:
					if err := uc.SyncRepositories(pollCtx); err != nil {
						errutil.HandleError(pollCtx, "fail to sync repositories", err)
					}
				}
			}
		}()
	}

	serverErr := make(chan error, 1)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Mux(),

		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// no WriteTimeout: /api/v1/events streams until the client leaves
	}

	go func() {
		logging.Default().Info("starting http server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- goerr.Wrap(err, "failed to listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err

	case sig := <-quit:
		logging.Default().Info("shutting down server", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server")
		}
	}

	return nil
}
