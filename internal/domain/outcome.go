package domain

// Outcome tags a scenario with what the harness expects the operation
// to do. Evaluation is uniform: the scenario passes when the observed
// behavior matches the tag, so negative-path tests no longer decide
// ad hoc whether a thrown error counts as success.
type Outcome int

const (
	// ExpectSuccess passes when the operation completes without error.
	ExpectSuccess Outcome = iota
	// ExpectFailure passes when the operation completes but reports an
	// application-level failure (e.g. status "error" in the response).
	ExpectFailure
	// ExpectError passes when the operation itself returns an error.
	ExpectError
)

func (o Outcome) String() string {
	switch o {
	case ExpectSuccess:
		return "expect-success"
	case ExpectFailure:
		return "expect-failure"
	case ExpectError:
		return "expect-error"
	}
	return "unknown"
}

// Matches reports whether the observed operation behavior satisfies
// the expected outcome. failed is the application-level verdict,
// err the transport/operation error.
func (o Outcome) Matches(failed bool, err error) bool {
	switch o {
	case ExpectSuccess:
		return err == nil && !failed
	case ExpectFailure:
		return err == nil && failed
	case ExpectError:
		return err != nil
	}
	return false
}
