package jobs

type State int

const (
	// Undefined is only returned for jobs that are not tracked.
	Undefined State = iota
	Foreground
	Background
	Stopped
)

// NOTE: Keep in sync with the State values above. These are the labels
// printed by the jobs builtin.
var stateLabels = []string{
	"Undefined",
	"Foreground",
	"Running",
	"Stopped",
}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateLabels) {
		return stateLabels[0]
	}

	return stateLabels[s]
}
