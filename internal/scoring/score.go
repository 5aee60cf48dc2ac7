// Package scoring assesses user messages for mental health risk.
//
// Each message is sent to an LLM with a fixed rubric and comes back as a
// single integer in [0,100]. The package distinguishes two failure shapes
// on purpose:
//
//   - The model answered but broke the contract (not a number, out of
//     range): the text WAS assessed, the answer is unusable, so the
//     score is 0.
//   - The model could not be reached (transport failure, timeout,
//     safety block, no credentials): the text was never assessed, so
//     the result is Unavailable and must not influence any aggregate.
package scoring

import "fmt"

// MinScore and MaxScore bound the valid scoring range.
const (
	MinScore = 0
	MaxScore = 100
)

// Score is the outcome of a risk assessment.
//
// When Unavailable is true the assessment never happened and Value is
// meaningless; consumers must skip it entirely rather than treat it as
// zero risk.
type Score struct {
	Value       int
	Unavailable bool
}

// Scored returns a valid assessment result.
func Scored(value int) Score { return Score{Value: value} }

// NoScore returns the sentinel for an assessment that could not be performed.
func NoScore() Score { return Score{Unavailable: true} }

func (s Score) String() string {
	if s.Unavailable {
		return "unavailable"
	}
	return fmt.Sprintf("%d", s.Value)
}

// InRange reports whether a raw model answer is within the rubric's range.
func InRange(v int) bool { return v >= MinScore && v <= MaxScore }
