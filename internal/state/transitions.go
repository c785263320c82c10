package state

// validTransitions contains the permitted forward transitions of the
// signup conversation. Returning to idle is always allowed, which is
// how /cancel and the abort button work from any step.
var validTransitions = map[State][]State{
	StateIdle: {
		StateSignupName,
	},
	StateSignupName: {
		StateSignupEmail,
	},
	StateSignupEmail: {
		StateSignupPhone,
	},
	StateSignupPhone: {
		StateSignupConfirm,
	},
	StateSignupConfirm: {
		StateIdle,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
