package bench

import "time"

// Outcome classifies how a row finished.
type Outcome int

const (
	// OutcomePass means the measured loop completed.
	OutcomePass Outcome = iota
	// OutcomeSkip means a precondition was unmet and no timed work ran.
	OutcomeSkip
	// OutcomeError means setup or the measured region failed.
	OutcomeError
)

// String returns the report label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkip:
		return "SKIP"
	case OutcomeError:
		return "ERROR"
	default:
		return "PASS"
	}
}

// Result is the outcome of one reported row.
type Result struct {
	Name       string        `json:"name"`
	Outcome    Outcome       `json:"-"`
	Reason     string        `json:"reason,omitempty"` // skip reason or error cause
	Unit       Unit          `json:"-"`
	Iterations int           `json:"iterations"`
	Total      time.Duration `json:"total_ns"`
	PerOp      time.Duration `json:"per_op_ns"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
}

// OpsPerSecond returns the measured throughput, or 0 for unmeasured rows.
func (r Result) OpsPerSecond() float64 {
	if r.Total <= 0 || r.Iterations == 0 {
		return 0
	}
	return float64(r.Iterations) / r.Total.Seconds()
}

// PerOpInUnit returns the per-iteration cost converted to the row's unit.
func (r Result) PerOpInUnit() float64 {
	return float64(r.PerOp) / float64(r.Unit.Duration())
}

// Summary aggregates row outcomes.
type Summary struct {
	Total   int
	Passed  int
	Skipped int
	Failed  int
}

// Summarize tallies outcomes over a result set.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeSkip:
			s.Skipped++
		case OutcomeError:
			s.Failed++
		default:
			s.Passed++
		}
	}
	return s
}
