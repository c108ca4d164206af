package flows

// Destination tells the caller where to go after a successful step.
type Destination int

const (
	DestinationNone Destination = iota
	DestinationLogin
	DestinationDashboard
)

func (d Destination) String() string {
	switch d {
	case DestinationLogin:
		return "login"
	case DestinationDashboard:
		return "dashboard"
	default:
		return "none"
	}
}

// Outcome is the result of a successful flow operation.
type Outcome struct {
	Message string
	Next    Destination
}
