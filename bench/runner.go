package bench

import (
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultIterations is the measured-loop budget when a run config does not
// set one.
const DefaultIterations = 100

// RunConfig controls a runner invocation.
type RunConfig struct {
	// Iterations is the measured-loop budget per row.
	Iterations int
	// AvailableDevices gates cases with a MinDevices precondition.
	AvailableDevices int
	// NamePattern optionally filters rows by a Go regexp over row names.
	NamePattern string
	// AfterCase, when set, runs after every row regardless of outcome. It
	// is the drain hook that keeps pending asynchronous work from leaking
	// between cases.
	AfterCase func()
	// Logger receives per-row diagnostics; nil disables logging.
	Logger *log.Logger
}

// Runner executes registered cases sequentially. A row that errors is
// reported and does not stop the remaining rows or cases.
type Runner struct {
	cfg RunConfig
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg RunConfig) *Runner {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	return &Runner{cfg: cfg}
}

// Run executes every registered row matching the name pattern and returns
// the results in execution order. The only call-level error is an invalid
// pattern.
func (r *Runner) Run(reg *Registry) ([]Result, error) {
	var filter *regexp.Regexp
	if r.cfg.NamePattern != "" {
		var err error
		filter, err = regexp.Compile(r.cfg.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("bench: invalid name pattern: %w", err)
		}
	}

	var results []Result
	for _, c := range reg.Cases() {
		for _, args := range c.rows() {
			name := RowName(c.Name, args)
			if filter != nil && !filter.MatchString(name) {
				continue
			}
			res := r.runRow(c, name, args)
			if r.cfg.AfterCase != nil {
				r.cfg.AfterCase()
			}
			r.logRow(res)
			results = append(results, res)
		}
	}
	return results, nil
}

// runRow executes one argument combination, converting a panic in setup or
// the measured region into an error outcome for this row only.
func (r *Runner) runRow(c Case, name string, args ArgSet) (res Result) {
	res = Result{Name: name, Unit: c.Unit}

	// Precondition gating happens before any setup so skipped rows carry
	// zero timing cost.
	if c.MinDevices > r.cfg.AvailableDevices {
		res.Outcome = OutcomeSkip
		res.Reason = fmt.Sprintf("requires %d devices, have %d", c.MinDevices, r.cfg.AvailableDevices)
		return res
	}

	st := newState(args, r.cfg.Iterations)
	defer func() {
		if p := recover(); p != nil {
			res.Outcome = OutcomeError
			res.Reason = fmt.Sprint(p)
			res.Iterations = st.iterations
			return
		}
		res.Iterations = st.iterations
		if st.skipped {
			res.Outcome = OutcomeSkip
			res.Reason = st.skipReason
			return
		}
		res.Outcome = OutcomePass
		res.Total = st.total
		res.Min = st.min
		res.Max = st.max
		if st.iterations > 0 {
			res.PerOp = st.total / time.Duration(st.iterations)
		}
	}()

	c.Run(st)
	return res
}

func (r *Runner) logRow(res Result) {
	if r.cfg.Logger == nil {
		return
	}
	switch res.Outcome {
	case OutcomeSkip:
		r.cfg.Logger.Info("skipped", "case", res.Name, "reason", res.Reason)
	case OutcomeError:
		r.cfg.Logger.Error("failed", "case", res.Name, "cause", res.Reason)
	default:
		r.cfg.Logger.Debug("measured", "case", res.Name, "iterations", res.Iterations, "per_op", res.PerOp)
	}
}
