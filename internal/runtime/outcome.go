package runtime

import (
	"fmt"
	"strings"
)

// Tag classifies how a submission's entry point finished.
type Tag int

const (
	// TagCompleted means the entry point returned normally without
	// classifying itself.
	TagCompleted Tag = iota
	// TagSuccess, TagFailure and TagError are cooperative self-reports
	// raised through robot.terminate.
	TagSuccess
	TagFailure
	TagError
	// TagFault covers everything else the entry point raised: exceptions,
	// interpreter panics, deadline interrupts.
	TagFault
)

func (t Tag) String() string {
	switch t {
	case TagCompleted:
		return "completed"
	case TagSuccess:
		return "success"
	case TagFailure:
		return "failure"
	case TagError:
		return "error"
	case TagFault:
		return "fault"
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// ParseTerminationTag maps a robot.terminate status string onto its tag.
func ParseTerminationTag(status string) (Tag, error) {
	switch strings.ToLower(status) {
	case "success":
		return TagSuccess, nil
	case "failure":
		return TagFailure, nil
	case "error":
		return TagError, nil
	}
	return 0, fmt.Errorf("unknown termination status %q, want success, failure or error", status)
}

// Termination is the cooperative early-exit signal a submission raises via
// robot.terminate. It travels through the VM as the interrupt value.
type Termination struct {
	Tag     Tag
	Message string
}

func (t *Termination) String() string {
	return fmt.Sprintf("terminated %s: %s", t.Tag, t.Message)
}

// FailureKind names the category of a captured fault.
type FailureKind string

const (
	FailureMounting     FailureKind = "mounting"
	FailureConsistency  FailureKind = "consistency"
	FailureDeadline     FailureKind = "deadline"
	FailureUnclassified FailureKind = "unclassified"
)

// Failure is the error holder for one captured fault: what kind it was, the
// message, and the trace when one was available. It never propagates as a
// Go error; the trial completes in a terminal state carrying it.
type Failure struct {
	Kind    FailureKind
	Message string
	Trace   string
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s fault: %s", f.Kind, f.Message)
}

// Outcome is the tagged result of one entry-point execution. Failure is set
// iff Tag is TagFault.
type Outcome struct {
	Tag     Tag
	Message string
	Failure *Failure
}

// Terminal maps the outcome onto the runtime's terminal state. A normal
// return and a cooperative success both end in StateSuccess; a cooperative
// error and every fault end in StateError.
func (o Outcome) Terminal() State {
	switch o.Tag {
	case TagCompleted, TagSuccess:
		return StateSuccess
	case TagFailure:
		return StateFailure
	}
	return StateError
}

func faultOutcome(f *Failure) Outcome {
	return Outcome{Tag: TagFault, Message: f.Message, Failure: f}
}
