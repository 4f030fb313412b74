package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rxtech-lab/argo-orchestrator/internal/config"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	_ "github.com/rxtech-lab/argo-orchestrator/internal/exchange/all"
	"github.com/rxtech-lab/argo-orchestrator/internal/export"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/server"
	"github.com/rxtech-lab/argo-orchestrator/internal/trading"
	"github.com/rxtech-lab/argo-orchestrator/internal/version"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "orchestrator",
		Usage:     "Analyze, trade, backtest and stream across crypto venues",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Optional .env file with venue credentials",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); defaults to ARGO_LOG_LEVEL",
			},
		},
		Commands: []*cli.Command{
			actionCommand(trading.ActionAnalyze, "Compute indicators and a decision without trading"),
			actionCommand(trading.ActionExecute, "Analyze, apply the risk gate and route an order"),
			actionCommand(trading.ActionStatus, "Report balances and positions"),
			actionCommand(trading.ActionCancel, "Cancel an order by id or client id"),
			actionCommand(trading.ActionBacktest, "Replay a strategy over historical candles"),
			actionCommand(trading.ActionStream, "Collect a bounded window of live samples"),
			actionCommand("", "Run the action named in the request file"),
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of a request",
				Action: schemaAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported venues",
				Action: providersAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve the orchestrator over HTTP",
				Action: serveAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address; defaults to ARGO_LISTEN_ADDR",
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

					return err
				},
			},
		},
	}
}

func actionCommand(action trading.Action, usage string) *cli.Command {
	name := string(action)
	if name == "" {
		name = "run"
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:      "request",
			Aliases:   []string{"r"},
			Usage:     "Request file (`FILE`, YAML or JSON)",
			Required:  true,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      "paper-state",
			Usage:     "Paper state file read before and written after the call",
			TakesFile: true,
		},
	}

	if action == trading.ActionBacktest || action == "" {
		flags = append(flags,
			&cli.StringFlag{
				Name:  "export",
				Usage: "Directory receiving the backtest trades and equity curve as parquet",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar",
				Value: true,
			},
		)
	}

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAction(ctx, cmd, action)
		},
	}
}

// setup loads the environment and builds the logger.
func setup(cmd *cli.Command) (*config.Env, *logger.Logger, error) {
	env, err := config.LoadEnv(cmd.String("env-file"))
	if err != nil {
		return nil, nil, err
	}

	levelName := cmd.String("log-level")
	if levelName == "" {
		levelName = env.App.LogLevel
	}

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid log level %q", levelName)
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, "failed to create logger", err)
	}

	return env, log, nil
}

func runAction(ctx context.Context, cmd *cli.Command, action trading.Action) error {
	env, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	req, err := config.LoadRequest(cmd.String("request"))
	if err != nil {
		return err
	}

	if action != "" {
		req.Action = action
	}

	statePath := cmd.String("paper-state")
	if statePath != "" && req.PaperState == nil {
		state, err := config.LoadPaperState(statePath)
		if err != nil {
			return err
		}

		req.PaperState = state
	}

	req.Exchange = env.ApplyCredentials(req.Exchange)

	opts := []trading.OrchestratorOption{
		trading.WithLogger(log),
		trading.WithHTTPTimeout(env.App.HTTPTimeout),
	}

	if req.Action == trading.ActionBacktest && cmd.Bool("progress") {
		opts = append(opts, trading.WithBacktestProgress(progressCallback(cmd.Root().ErrWriter)))
	}

	result := trading.NewOrchestrator(opts...).Run(ctx, req)

	if statePath != "" {
		if state := result.PaperState(); state != nil {
			if err := config.SavePaperState(statePath, state); err != nil {
				return err
			}
		}
	}

	if dir := cmd.String("export"); dir != "" && result.Backtest != nil {
		files, err := export.Backtest(ctx, *result.Backtest, dir, log)
		if err != nil {
			return err
		}

		log.Info("backtest exported", zap.String("trades", files.Trades), zap.String("equity", files.Equity))
	}

	if err := printJSON(cmd.Root().Writer, result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%s failed: %s", req.Action, result.Message)
	}

	return nil
}

// progressCallback draws a bar sized on the first callback.
func progressCallback(w io.Writer) func(current, total int) error {
	var bar *progressbar.ProgressBar

	return func(current, total int) error {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("backtest"),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			)
		}

		return bar.Set(current)
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.RequestSchema()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	names := exchange.SupportedProviders()
	providers := make([]exchange.ProviderInfo, 0, len(names))

	for _, name := range names {
		info, err := exchange.GetProviderInfo(name)
		if err != nil {
			return err
		}

		providers = append(providers, info)
	}

	return printJSON(cmd.Root().Writer, providers)
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	env, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	addr := cmd.String("addr")
	if addr == "" {
		addr = env.App.ListenAddr
	}

	orchestrator := trading.NewOrchestrator(
		trading.WithLogger(log),
		trading.WithHTTPTimeout(env.App.HTTPTimeout),
	)

	srv := server.NewServer(orchestrator, server.WithEnv(env), server.WithLogger(log))
	if err := srv.Start(addr); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
