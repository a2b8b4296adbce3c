package repolink

// State is a step of the planner flow.
type State int

const (
	Start State = iota
	CheckAuth
	NeedLogin
	Authenticated
	ResolveUsername
	ResolveOrganization
	CheckExistence
	LinkExisting
	CreateNew
	Done
	Abort
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case CheckAuth:
		return "check-auth"
	case NeedLogin:
		return "need-login"
	case Authenticated:
		return "authenticated"
	case ResolveUsername:
		return "resolve-username"
	case ResolveOrganization:
		return "resolve-organization"
	case CheckExistence:
		return "check-existence"
	case LinkExisting:
		return "link-existing"
	case CreateNew:
		return "create-new"
	case Done:
		return "done"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the flow.
func (s State) Terminal() bool {
	return s == Done || s == Abort
}

// Decision is what the flow chose to do about the remote repository.
type Decision string

const (
	DecisionSkip   Decision = "skip"
	DecisionCreate Decision = "create"
	DecisionLink   Decision = "link"
	DecisionAbort  Decision = "abort"
)

// Outcome is the result of one planner flow.
type Outcome struct {
	State     State
	Decision  Decision
	Username  string
	Owner     string
	RemoteURL string

	// Completed is true once the create or link command succeeded.
	Completed bool

	// Trace lists every state visited, in order, ending with State.
	Trace []State
}

// OK reports whether a remote repository was created or linked.
func (o Outcome) OK() bool {
	return o.State == Done && o.Completed
}
