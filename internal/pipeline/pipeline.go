package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/llmstxt/internal/model"
)

// Step is one stage of a run.
type Step interface {
	// Do executes the step against run. Recoverable failures are logged
	// and absorbed; a returned error stops the pipeline.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in the order they were added.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used by the pipeline and, through
// DefaultPipeline, by its steps.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against run in sequence. The context is checked
// before each step; steps handle cancellation inside themselves.
//
// It returns the first step error, or nil when all steps completed.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	if run.Result.StartedAt.IsZero() {
		run.Result.StartedAt = time.Now()
	}

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", run.RootURL,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"url", run.RootURL,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", run.RootURL,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"url", run.RootURL,
		)
	}

	run.Result.Elapsed = time.Since(run.Result.StartedAt)
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
