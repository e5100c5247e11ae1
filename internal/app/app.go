package app

import (
	"context"
	"errors"
	"time"

	"github.com/mini-maxit/tester/internal/config"
	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/internal/pipeline"
	"github.com/mini-maxit/tester/internal/rabbitmq"
	"github.com/mini-maxit/tester/internal/rabbitmq/responder"
	"github.com/mini-maxit/tester/internal/reporter"
	"github.com/mini-maxit/tester/internal/scheduler"
	"github.com/mini-maxit/tester/internal/stages/discovery"
	"github.com/mini-maxit/tester/internal/stages/executor"
	"github.com/mini-maxit/tester/internal/stages/verifier"
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const publishTimeout = 10 * time.Second

// Run tests a solution with the given command line arguments and returns the
// process exit code.
func Run(ctx context.Context, args []string) int {
	log := logger.NewNamedLogger("tester")
	defer logger.Sync()

	cfg, err := config.NewConfig(args)
	if errors.Is(err, pflag.ErrHelp) {
		return constants.ExitCodeSuccess
	}
	if err != nil {
		log.Errorf("Invalid configuration: %s", err)
		return constants.ExitCodeFailure
	}
	if cfg.Verbose {
		logger.SetLevel(zapcore.DebugLevel)
	}

	probe := cfg.MemoryProbe
	if probe != "" {
		if err := executor.CheckMemoryProbe(ctx, probe); err != nil {
			log.Warnf("Peak memory will not be measured: %s", err)
			probe = ""
		}
	}

	discoverer, err := discovery.NewDiscoverer(cfg.NamePattern, cfg.IgnoreBackup)
	if err != nil {
		log.Errorf("Invalid test file format: %s", err)
		return constants.ExitCodeFailure
	}
	cases, err := discoverer.FindTestCases(cfg.Directory, cfg.TestPaths)
	if err != nil {
		log.Errorf("Failed to find test cases: %s", err)
		return constants.ExitCodeFailure
	}
	log.Infof("Found %d test cases", len(cases))

	ver, err := verifier.NewVerifier(verifier.Options{
		CompareMode:    cfg.CompareMode,
		FloatTolerance: cfg.FloatTolerance,
		JudgeCommand:   cfg.JudgeCommand,
		JudgeTimeLimit: cfg.JudgeTimeLimit(),
	})
	if err != nil {
		log.Errorf("Failed to set up the special judge: %s", err)
		return constants.ExitCodeFailure
	}
	if ver.UsesSpecialJudge() {
		log.Infof("Checking answers with special judge %q", cfg.JudgeCommand)
	}
	if _, err := executor.ResolveCommand(cfg.Command); err != nil {
		log.Errorf("Cannot run %q: %s", cfg.Command, err)
		return constants.ExitCodeFailure
	}

	exe := executor.NewExecutor(executor.Options{MemoryProbe: probe})
	if !exe.MemoryProbeEnabled() && cfg.MemoryLimitMB != nil {
		log.Warn("Memory limit is ignored because no memory probe is available")
	}

	rep := reporter.NewReporter(reporter.Options{
		DisplayMode: cfg.DisplayMode,
		PrintInput:  cfg.PrintInput,
		PrintMemory: cfg.PrintMemory,
		Silent:      cfg.Silent,
	})
	sched := scheduler.NewScheduler(
		cfg.Jobs,
		pipeline.Config{Command: cfg.Command, TimeLimit: cfg.TimeLimit(), Limits: cfg.Limits()},
		exe,
		ver,
		rep,
	)

	result, err := sched.RunAll(ctx, cases)
	if err != nil {
		log.Errorf("Test run aborted: %s", err)
		publish(ctx, cfg, log, func(ctx context.Context, r responder.Responder) error {
			return r.PublishErrorToResponseQueue(ctx, result.RunID, err)
		})
		return constants.ExitCodeFailure
	}

	rep.ReportSummary(result)

	if cfg.ReportPath != "" {
		if err := reporter.WriteReportFile(cfg.ReportPath, result); err != nil {
			log.Errorf("Failed to write report: %s", err)
			return constants.ExitCodeFailure
		}
		log.Debugf("Report written to %s", cfg.ReportPath)
	}

	publish(ctx, cfg, log, func(ctx context.Context, r responder.Responder) error {
		return r.PublishTestRunResult(ctx, result, cfg.Command, cfg.CompareMode.String())
	})

	if !result.Passed {
		return constants.ExitCodeFailure
	}
	return constants.ExitCodeSuccess
}

// publish sends to the result queue when one is configured. Failures are only
// logged.
func publish(
	ctx context.Context,
	cfg *config.Config,
	log *zap.SugaredLogger,
	send func(context.Context, responder.Responder) error,
) {
	if cfg.ResultQueueURL == "" {
		return
	}

	conn, err := rabbitmq.NewRabbitMqConnection(cfg.ResultQueueURL)
	if err != nil {
		log.Warnf("Result not published: %s", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warnf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	ch, err := rabbitmq.NewRabbitMQChannel(conn)
	if err != nil {
		log.Warnf("Result not published: %s", err)
		return
	}
	r, err := responder.NewResponder(ch, cfg.ResultQueueName)
	if err != nil {
		log.Warnf("Result not published: %s", err)
		return
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := send(ctx, r); err != nil {
		log.Warnf("Result not published: %s", err)
		return
	}
	log.Infof("Result published to queue %s", cfg.ResultQueueName)
}
