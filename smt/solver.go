package smt

import (
	"time"

	"github.com/aclements/go-z3/z3"
)

// Result is the three-valued outcome of an SMT query (spec §5: a timeout
// must never surface as an exception, only as Unknown).
type Result int

const (
	Unsat Result = iota
	Sat
	Unknown
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Solver wraps a z3.Solver with push/pop bookkeeping and a per-query timeout,
// the incremental-use pattern spec §9 "Solver lifetime" asks for: the base
// constraint is asserted once and every subsequent query pushes, asserts,
// checks, and pops rather than rebuilding a fresh context.
type Solver struct {
	ctx     *Context
	raw     *z3.Solver
	timeout time.Duration
}

// DefaultTimeout is used when NewSolver is called without an explicit one;
// the CLI entrypoint passes config.Config.SolverTimeout() instead.
const DefaultTimeout = 2 * time.Second

// NewSolver creates a solver over ctx with the given per-query timeout.
func NewSolver(ctx *Context, timeout time.Duration) *Solver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Solver{
		ctx:     ctx,
		raw:     z3.NewSolver(ctx.Raw()),
		timeout: timeout,
	}
}

// Assert adds an unconditional constraint. Use Push/Pop to scope it.
func (s *Solver) Assert(b z3.Bool) { s.raw.Assert(b) }

// Push opens a new assertion scope.
func (s *Solver) Push() { s.raw.Push() }

// Pop closes the innermost assertion scope, discarding its assertions.
func (s *Solver) Pop() { s.raw.Pop() }

// Reset clears all assertions and scopes.
func (s *Solver) Reset() { s.raw.Reset() }

// Check runs satisfiability with the solver's configured timeout and maps
// the raw go-z3 result onto Result. A solver timeout is reported as Unknown,
// never as a panic or error (§5, §4.4 "Failure modes").
func (s *Solver) Check() Result {
	s.raw.SetTimeout(s.timeout)
	switch s.raw.Check() {
	case z3.Sat:
		return Sat
	case z3.Unsat:
		return Unsat
	default:
		return Unknown
	}
}

// CheckAssuming runs satisfiability under a set of tracked boolean literals
// (the teacher's soft-constraint pattern from Slava0135-gobber's use of
// ctx.BoolConst labels) and, on Unsat, returns the subset of labels that
// participated in the core. Used by globalformula to localize a conflict to
// specific items (SPEC_FULL §C.1).
func (s *Solver) CheckAssuming(labels []z3.Bool) (Result, []z3.Bool) {
	s.raw.SetTimeout(s.timeout)
	switch s.raw.Check(labels...) {
	case z3.Sat:
		return Sat, nil
	case z3.Unsat:
		return Unsat, s.raw.UnsatCore()
	default:
		return Unknown, nil
	}
}

// Model returns the satisfying assignment found by the most recent Check
// call that returned Sat. Callers must not call Model after a non-Sat check.
func (s *Solver) Model() *Model {
	return &Model{raw: s.raw.Model()}
}

// Model wraps a z3.Model to expose only the projection the rest of the
// pipeline needs: evaluating a term to a concrete int64 or bool.
type Model struct {
	raw *z3.Model
}

// EvalInt evaluates an integer term against the model, completing any
// unconstrained variables (model_completion=true in the Python original).
func (m *Model) EvalInt(t z3.Int) (int64, bool) {
	v := m.raw.Eval(t, true).(z3.Int)
	return v.AsInt64()
}

// EvalBool evaluates a boolean term against the model.
func (m *Model) EvalBool(t z3.Bool) (bool, bool) {
	v := m.raw.Eval(t, true).(z3.Bool)
	return v.AsBool()
}
