package gate

// Phase is the settlement state of one asynchronous input.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseSettled Phase = "settled"
	PhaseFailed  Phase = "failed"
)

// Observed is an input to the gate together with its settlement state.
type Observed[T any] struct {
	Phase Phase
	Value T
	Err   error
}

func Pending[T any]() Observed[T] {
	return Observed[T]{Phase: PhasePending}
}

func Settled[T any](v T) Observed[T] {
	return Observed[T]{Phase: PhaseSettled, Value: v}
}

func Failed[T any](err error) Observed[T] {
	return Observed[T]{Phase: PhaseFailed, Err: err}
}

// From settles with v when err is nil and fails otherwise.
func From[T any](v T, err error) Observed[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Settled(v)
}

// AllSettled joins phases: pending while any input is pending, failed if any
// failed, settled otherwise.
func AllSettled(phases ...Phase) Phase {
	failed := false
	for _, p := range phases {
		switch p {
		case PhaseSettled:
		case PhaseFailed:
			failed = true
		default:
			return PhasePending
		}
	}
	if failed {
		return PhaseFailed
	}
	return PhaseSettled
}
