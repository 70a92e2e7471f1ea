package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/report"
	"github.com/nao1215/blossomchef/internal/tree"
)

// Run is the state handed from step to step.
type Run struct {
	// Raw is set by the crawl step or loaded by the scrape step.
	Raw *model.ResourceTree

	// Channel is the current content tree.
	Channel *model.Channel

	// Stats is set when the content tree was built in this run.
	Stats *tree.Stats

	// OverridesApplied counts node updates made by the patch step.
	OverridesApplied int

	// Summary is set by the channel step.
	Summary *report.Summary

	// Performed lists the names of the steps that completed.
	Performed []string

	// Err is the last step error.
	Err error
}

// Step is one stage of the chef.
type Step interface {
	// Do executes the step. Returning an error stops the pipeline unless
	// it runs with WithContinueOnError.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after one fails. Later steps
// then fall back to the artifacts on disk.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
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

// Execute runs all steps in sequence. Cancellation is checked between
// steps; steps handle it themselves while running.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", ctx.Err())
			run.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "step", step.Name())
		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "error", err)
			run.Err = err
			if !p.continueOnError {
				return err
			}
			continue
		}
		p.logger.Debug("step completed", "step", step.Name())
		run.Performed = append(run.Performed, step.Name())
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
