package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexisbeaulieu97/eetest/internal/artifact"
	"github.com/alexisbeaulieu97/eetest/internal/collection"
	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/envprovider"
	"github.com/alexisbeaulieu97/eetest/internal/logger"
	"github.com/alexisbeaulieu97/eetest/internal/model"
	"github.com/alexisbeaulieu97/eetest/internal/report"
	"github.com/alexisbeaulieu97/eetest/internal/target"
	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

// StdoutSuffix names the file holding a failed target's captured output.
const StdoutSuffix = "_stdout.txt"

// Runner executes the integration targets of one collection sequentially.
type Runner struct {
	Provider envprovider.Provider
	Executor Executor
	Logger   *logger.Logger
	// Out receives banners, skip diagnostics and the summary.
	Out io.Writer
	// ArtifactDir holds generated artifacts; empty means the OS temp dir.
	ArtifactDir string
	// Generate produces per-target identifiers.
	Generate func() config.Generated
}

// Summary is the outcome of a run.
type Summary struct {
	Results []model.TargetResult
	Skipped []string
}

// Failed counts failed targets.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Passed() {
			n++
		}
	}
	return n
}

// New creates a Runner that executes child processes.
func New(provider envprovider.Provider, log *logger.Logger, out io.Writer) *Runner {
	return &Runner{
		Provider: provider,
		Executor: ProcessExecutor{},
		Logger:   log,
		Out:      out,
		Generate: config.NewGenerated,
	}
}

// Run prepares the provider, then runs every eligible target and prints the
// aggregated result lines. Target failures are reported in the summary, not
// as errors.
func (r *Runner) Run(ctx context.Context, opts config.RunOptions) (Summary, error) {
	if r.Provider == nil {
		return Summary{}, fmt.Errorf("runner has no environment provider")
	}

	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	log := r.Logger.WithFields(map[string]any{"provider": r.Provider.Name()})

	if err := r.Provider.Prepare(ctx); err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := r.Provider.Cleanup(); err != nil {
			log.Error(err, "environment cleanup failed")
		}
	}()

	r.logRevision(log, opts.CollectionPath)

	targetsDir, err := filepath.Abs(opts.TargetsDir())
	if err != nil {
		return Summary{}, fmt.Errorf("resolve targets directory: %w", err)
	}
	targets, err := target.Discover(targetsDir)
	if err != nil {
		return Summary{}, err
	}
	log.WithFields(map[string]any{"dir": targetsDir, "count": len(targets)}).Debug("targets discovered")

	agg := report.New(out, report.Options{
		Color: opts.Color,
		Table: opts.SummaryTable,
		Echo:  !opts.UseStdout,
	})

	var summary Summary
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted, remaining targets not started")
			summary.Results = agg.Results()
			agg.Print()
			return summary, err
		}

		if skip, reason := target.ShouldSkip(t, opts.Targets, opts.AllowSlow); skip {
			summary.Skipped = append(summary.Skipped, t.Name)
			if reason.Announce() {
				agg.Skip(t.Name, reason.String())
			}
			log.WithTarget(t.Name).Debug("skipped: " + reason.String())
			continue
		}

		agg.Record(r.runTarget(ctx, t, opts, agg))
	}

	summary.Results = agg.Results()
	agg.Print()
	log.WithFields(map[string]any{
		"run":     len(summary.Results),
		"failed":  summary.Failed(),
		"skipped": len(summary.Skipped),
	}).Info("run finished")

	return summary, nil
}

func (r *Runner) runTarget(ctx context.Context, t target.Target, opts config.RunOptions, agg *report.Aggregator) model.TargetResult {
	log := r.Logger.WithTarget(t.Name)
	res := model.TargetResult{Target: t.Name, Timestamp: time.Now()}

	cmd, artifactPath, err := r.prepare(t, opts)
	if err != nil {
		log.Error(err, "artifact generation failed")
		return failed(res, -1, eeerrors.NewExecutionError(t.Name, err))
	}
	defer func() {
		if err := artifact.Remove(artifactPath); err != nil {
			log.Warn(err.Error())
		}
	}()

	agg.Banner(t.Name, cmd.String())
	log.Debug("starting " + cmd.Program)

	exec := r.Executor
	if exec == nil {
		exec = ProcessExecutor{}
	}
	outcome, err := exec.Execute(ctx, cmd, opts.UseStdout)
	res.Duration = time.Since(res.Timestamp)
	if err != nil {
		log.Error(err, "target could not be started")
		return failed(res, outcome.ExitCode, eeerrors.NewExecutionError(t.Name, err))
	}

	res.ExitCode = outcome.ExitCode
	if outcome.ExitCode == 0 {
		res.Status = model.StatusPassed
		log.Info("target passed")
		return res
	}

	res.Status = model.StatusFailed
	if !opts.UseStdout {
		file, err := saveOutput(opts.OutputDir, t.Name, outcome.Stdout)
		if err != nil {
			log.Error(err, "could not save target output")
		} else {
			res.OutputFile = file
		}
	}
	log.WithFields(map[string]any{"exit_code": outcome.ExitCode}).Warn("target failed")
	return res
}

// prepare writes the target's artifact and builds the command that consumes it.
func (r *Runner) prepare(t target.Target, opts config.RunOptions) (command.Command, string, error) {
	generate := r.Generate
	if generate == nil {
		generate = config.NewGenerated
	}
	vars := r.Provider.Variables(generate())

	if t.HasEntrypoint() {
		path, err := artifact.WriteVariables(r.ArtifactDir, vars)
		if err != nil {
			return command.Command{}, "", err
		}
		run := r.Provider.ContainerRun(t, path)
		run.Engine = opts.ContainerEngine
		return run.Build(opts.Image), path, nil
	}

	path, err := artifact.WritePlaybook(r.ArtifactDir, t.Name, vars, r.Provider.PlaybookMode())
	if err != nil {
		return command.Command{}, "", err
	}
	nav := command.Navigator{
		Playbook: path,
		Image:    opts.Image,
		Engine:   opts.ContainerEngine,
		Mounts:   r.Provider.NavigatorMounts(),
		Env:      r.Provider.Assignments(),
	}
	return nav.Build(), path, nil
}

func (r *Runner) logRevision(log *logger.Logger, collectionPath string) {
	rev, err := collection.Describe(collectionPath)
	switch {
	case errors.Is(err, collection.ErrNotRepository):
		log.Debug("collection is not a git checkout")
	case err != nil:
		log.Warn("collection revision unavailable: " + err.Error())
	default:
		log.WithFields(map[string]any{"revision": rev.String()}).Info("collection revision")
	}
}

func saveOutput(dir, name string, stdout []byte) (string, error) {
	file := name + StdoutSuffix
	if dir != "" {
		file = filepath.Join(dir, file)
	}
	if err := os.WriteFile(file, stdout, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", file, err)
	}
	return file, nil
}

func failed(res model.TargetResult, code int, err error) model.TargetResult {
	res.Status = model.StatusFailed
	res.ExitCode = code
	res.Error = err
	return res
}
