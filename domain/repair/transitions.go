package repair

// TransitionPolicy decides which status changes staff may make.
//
// The intake workflow is a single linear progression, but shops also
// correct mistakes by moving a sheet backwards, so the default policy
// permits any change between known statuses. A restrictive set can be
// loaded from the policy file instead.
type TransitionPolicy struct {
	// allowed maps from-status to the permitted to-statuses. Nil means
	// every transition between valid statuses is permitted.
	allowed map[Status]map[Status]bool
}

// PermissiveTransitionPolicy allows any transition between valid
// statuses, including no-op updates.
func PermissiveTransitionPolicy() *TransitionPolicy {
	return &TransitionPolicy{}
}

// NewTransitionPolicy builds a policy from an explicit transition set.
func NewTransitionPolicy(transitions map[Status][]Status) *TransitionPolicy {
	allowed := make(map[Status]map[Status]bool, len(transitions))
	for from, tos := range transitions {
		set := make(map[Status]bool, len(tos))
		for _, to := range tos {
			set[to] = true
		}
		allowed[from] = set
	}
	return &TransitionPolicy{allowed: allowed}
}

// Allowed reports whether moving from one status to another is
// permitted. Setting a job to its current status is always allowed so
// cost-only updates pass through.
func (p *TransitionPolicy) Allowed(from, to Status) bool {
	if p == nil || p.allowed == nil {
		return true
	}
	if from == to {
		return true
	}
	return p.allowed[from][to]
}
