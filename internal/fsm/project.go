package fsm

// Status constants used by the project/offer state machine.
const (
	ProjectDraft      = "draft"
	ProjectSent       = "sent"
	ProjectAccepted   = "accepted"
	ProjectDeclined   = "declined"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

var projectTransitions = map[string]map[string]struct{}{
	ProjectDraft: {
		ProjectSent:      {},
		ProjectCancelled: {},
	},
	ProjectSent: {
		ProjectAccepted:  {},
		ProjectDeclined:  {},
		ProjectCancelled: {},
	},
	ProjectAccepted: {
		ProjectInProgress: {},
		ProjectCancelled:  {},
	},
	ProjectInProgress: {
		ProjectCompleted: {},
		ProjectCancelled: {},
	},
	// Reopening is the only backward edge in the machine.
	ProjectCompleted: {
		ProjectInProgress: {},
	},
	ProjectDeclined:  {},
	ProjectCancelled: {},
}

// ProjectCanTransition reports whether a project may move from one status to
// another. Repeating the current status is not a legal transition: statuses
// carry side effects (timestamps, notifications) that must fire exactly once.
func ProjectCanTransition(from, to string) bool {
	if from == to {
		return false
	}
	allowed, ok := projectTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsProjectStatus reports whether s is a known project status.
func IsProjectStatus(s string) bool {
	_, ok := projectTransitions[s]
	return ok
}

// ProjectIsTerminal reports whether no outgoing transitions remain.
func ProjectIsTerminal(status string) bool {
	return len(projectTransitions[status]) == 0
}

// ProjectCanBeInvoiced reports whether invoices may be created from a
// project in the given status.
func ProjectCanBeInvoiced(status string) bool {
	switch status {
	case ProjectAccepted, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}
