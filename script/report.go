package script

import (
	"time"
)

// Outcome is the result of one EXPECT directive.
type Outcome struct {
	// Line is the script line number of the directive
	Line int

	// Directive is the directive text as written
	Directive string

	// Pattern is the pattern that was evaluated
	Pattern string

	// Reply is the data reply the pattern was evaluated against
	Reply string

	// Passed reports whether the pattern matched
	Passed bool

	// Err holds a matcher error, such as an invalid pattern
	Err error
}

// Report aggregates the results of a script run.
type Report struct {
	// Script is the script name
	Script string

	// Commands is the number of commands sent
	Commands int

	// Outcomes holds every evaluated EXPECT directive in order
	Outcomes []Outcome

	// Elapsed is the wall time of the run
	Elapsed time.Duration
}

// Passed returns the number of passing expectations.
func (r *Report) Passed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing expectations.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Passed()
}

// OK reports whether every expectation passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Err returns an *ExpectationError when any expectation failed, nil otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ExpectationError{Failed: r.Failed(), Total: len(r.Outcomes)}
}
