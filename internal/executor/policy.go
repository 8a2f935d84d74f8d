package executor

import "fmt"

// FailurePolicy controls what happens to unrelated nodes after a failure.
type FailurePolicy int

const (
	// ContinueElsewhere skips the failed node's descendants and keeps
	// running everything else.
	ContinueElsewhere FailurePolicy = iota
	// FailFast stops launching new nodes after the first failure.
	FailFast
)

// String returns the policy's flag value.
func (p FailurePolicy) String() string {
	switch p {
	case ContinueElsewhere:
		return "continue"
	case FailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParsePolicy converts a flag value into a FailurePolicy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "continue":
		return ContinueElsewhere, nil
	case "fail-fast":
		return FailFast, nil
	default:
		return 0, fmt.Errorf("unknown failure policy '%s' (want continue or fail-fast)", s)
	}
}
