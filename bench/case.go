// Package bench is a microbenchmark harness for timed scenarios over the
// glint runtime: named cases with parameter grids, device-count gating,
// warm-up before measurement, and pass/skip/error reporting.
//
// A case body follows the dispatch-then-measure pattern: everything before
// the first State.KeepRunning call is untimed setup and warm-up, and the
// measured loop runs until the iteration budget is spent.
//
//	reg.MustRegister(bench.Case{
//	    Name: "eager_neg_dispatch",
//	    Run: func(st *bench.State) {
//	        a := client.Scalar(1)
//	        glint.Neg(a).BlockUntilReady() // warm-up, untimed
//	        for st.KeepRunning() {
//	            glint.Neg(a)
//	        }
//	    },
//	})
package bench

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the time unit a case reports in.
type Unit int

const (
	Nanosecond Unit = iota
	Microsecond
	Millisecond
)

// String returns the unit suffix used in reports.
func (u Unit) String() string {
	switch u {
	case Microsecond:
		return "µs"
	case Millisecond:
		return "ms"
	default:
		return "ns"
	}
}

// Duration returns one unit as a time.Duration.
func (u Unit) Duration() time.Duration {
	switch u {
	case Microsecond:
		return time.Microsecond
	case Millisecond:
		return time.Millisecond
	default:
		return time.Nanosecond
	}
}

// Arg is one named argument value in a parameter grid.
type Arg struct {
	Name  string
	Value int64
}

// ArgSet is one combination of argument values. Each ArgSet of a case is
// run and reported as its own row.
type ArgSet []Arg

// BoolArg encodes a boolean grid value as 0/1.
func BoolArg(name string, v bool) Arg {
	var n int64
	if v {
		n = 1
	}
	return Arg{Name: name, Value: n}
}

// BoolGrid expands a base ArgSet with both values of a boolean argument.
func BoolGrid(name string, base ...ArgSet) []ArgSet {
	if len(base) == 0 {
		base = []ArgSet{nil}
	}
	out := make([]ArgSet, 0, 2*len(base))
	for _, b := range base {
		for _, v := range []bool{true, false} {
			set := append(ArgSet{}, b...)
			out = append(out, append(set, BoolArg(name, v)))
		}
	}
	return out
}

// Case is a registered benchmark scenario.
type Case struct {
	// Name uniquely identifies the case.
	Name string
	// Unit is the reporting unit; zero value is nanoseconds.
	Unit Unit
	// MinDevices is a hardware precondition: rows are skipped, before any
	// setup runs, when fewer devices are available.
	MinDevices int
	// Args is an optional parameter grid; every ArgSet becomes a reported
	// row. A nil grid runs the case once with no arguments.
	Args []ArgSet
	// Run performs setup, warm-up, and the measured loop.
	Run func(st *State)
}

// rows returns the case's argument grid, with a single empty set for
// grid-less cases.
func (c Case) rows() []ArgSet {
	if len(c.Args) == 0 {
		return []ArgSet{nil}
	}
	return c.Args
}

// RowName renders the reported name for one argument combination, e.g.
// "pmap_simple_8_devices/async:1".
func RowName(name string, args ArgSet) string {
	if len(args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	for _, a := range args {
		fmt.Fprintf(&b, "/%s:%d", a.Name, a.Value)
	}
	return b.String()
}
