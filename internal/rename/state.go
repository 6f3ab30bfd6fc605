package rename

// State is the workflow's position in the rename lifecycle
type State int

const (
	StateEditing State = iota
	StateConfirming
	StateProbingExistence
	StateConflictFound
	StateRenaming
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateConfirming:
		return "confirming"
	case StateProbingExistence:
		return "probing"
	case StateConflictFound:
		return "conflict"
	case StateRenaming:
		return "renaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can leave s
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// busy reports whether a network call owns the workflow in s
func (s State) busy() bool {
	return s == StateConfirming || s == StateProbingExistence || s == StateRenaming
}

// OutcomeKind tags how a workflow ended
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota + 1
	OutcomeCancelled
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure reasons carried by a failed outcome
const (
	ReasonConnectivity = "connectivity"
	ReasonRenameFailed = "rename failed"
)

// Outcome is the single terminal result of a workflow. Path is the remote
// destination for OutcomeCompleted; Reason and Message are set for
// OutcomeFailed.
type Outcome struct {
	Kind    OutcomeKind
	Path    string
	Reason  string
	Message string
}

func completed(path string) Outcome {
	return Outcome{Kind: OutcomeCompleted, Path: path}
}

func cancelled() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}

func failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, Message: MessageConnectivity}
}

// Snapshot is the externally visible state of a workflow at one instant
type Snapshot struct {
	State          State
	Candidate      string
	Validation     ValidationResult
	// ConfirmEnabled decides whether Confirm is accepted. It can be false while
	// Validation is valid, e.g. after a conflict until the name changes.
	ConfirmEnabled bool
	// Message is the inline error text: the validation reason while editing,
	// the conflict message after a conflict, empty otherwise.
	Message     string
	Destination string
}
