package eventwall

import "highsport/internal/model"

// LoadPhase tags a LoadState.
type LoadPhase int

const (
	NotLoaded LoadPhase = iota
	Loading
	Loaded
	Failed
)

func (p LoadPhase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "not-loaded"
	}
}

// FailureMessage is shown when the data source fails without a message of its own.
const FailureMessage = "Failed to load events. Please try again later."

// LoadState is the data-loading lifecycle of one wall.
// Events is meaningful only when Phase is Loaded, Message only when Failed.
type LoadState struct {
	Phase   LoadPhase
	Events  []model.Event
	Message string
}

func StateLoading() LoadState { return LoadState{Phase: Loading} }

func StateLoaded(events []model.Event) LoadState {
	if events == nil {
		events = []model.Event{}
	}
	return LoadState{Phase: Loaded, Events: events}
}

func StateFailed(msg string) LoadState {
	if msg == "" {
		msg = FailureMessage
	}
	return LoadState{Phase: Failed, Message: msg}
}

// Settled reports whether the load reached a terminal phase.
func (s LoadState) Settled() bool { return s.Phase == Loaded || s.Phase == Failed }
