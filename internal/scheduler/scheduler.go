package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/internal/pipeline"
	"github.com/mini-maxit/tester/internal/reporter"
	"github.com/mini-maxit/tester/internal/stages/executor"
	"github.com/mini-maxit/tester/internal/stages/verifier"
	"github.com/mini-maxit/tester/pkg/solution"
	"go.uber.org/zap"
)

type Scheduler interface {
	// RunAll evaluates every case and returns the aggregated result. The first
	// harness error cancels the cases that have not started yet.
	RunAll(ctx context.Context, cases []solution.TestCase) (solution.Result, error)
	GetWorkersCount() int
}

type scheduler struct {
	workers map[int]pipeline.Worker
	logger  *zap.SugaredLogger
}

func NewScheduler(
	maxWorkers int,
	cfg pipeline.Config,
	executor executor.Executor,
	verifier verifier.Verifier,
	reporter reporter.Reporter,
) Scheduler {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		workers[i] = pipeline.NewWorker(i, cfg, executor, verifier, reporter)
	}

	return NewSchedulerWithWorkers(workers)
}

// NewSchedulerWithWorkers builds a scheduler over already constructed workers.
func NewSchedulerWithWorkers(workers map[int]pipeline.Worker) Scheduler {
	return &scheduler{
		workers: workers,
		logger:  logger.NewNamedLogger("scheduler"),
	}
}

func (s *scheduler) GetWorkersCount() int {
	return len(s.workers)
}

func (s *scheduler) RunAll(ctx context.Context, cases []solution.TestCase) (solution.Result, error) {
	summary := solution.NewSummary()
	s.logger.Infof("Running %d cases on %d workers [RunID: %s]", len(cases), len(s.workers), summary.RunID())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan solution.TestCase)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, w := range s.workers {
		wg.Add(1)
		go func(w pipeline.Worker) {
			defer wg.Done()
			for tc := range jobs {
				res, err := s.processCase(ctx, w, tc)
				if err != nil {
					s.logger.Errorf("Worker %d failed on case %s: %s", w.GetId(), tc.Name, err)
					fail(err)
					continue
				}
				if err := summary.Add(res); err != nil {
					fail(err)
				}
			}
		}(w)
	}

feed:
	for _, tc := range cases {
		select {
		case jobs <- tc:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	return summary.Result(), firstErr
}

func (s *scheduler) processCase(ctx context.Context, w pipeline.Worker, tc solution.TestCase) (res solution.TestResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Worker panicked: %v", r)
			err = fmt.Errorf("worker %d panicked on case %s: %v", w.GetId(), tc.Name, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return solution.TestResult{}, err
	}
	return w.ProcessCase(ctx, tc)
}
