package recruitment

const (
	StageApplied      = "applied"
	StageInterviewing = "interviewing"
	StageOffered      = "offered"
	StageHired        = "hired"
	StageRejected     = "rejected"
)

// Stages lists pipeline stages in board order.
var Stages = []string{StageApplied, StageInterviewing, StageOffered, StageHired, StageRejected}

var nextStage = map[string]string{
	StageApplied:      StageInterviewing,
	StageInterviewing: StageOffered,
	StageOffered:      StageHired,
}

func ValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

func IsTerminal(stage string) bool {
	return stage == StageHired || stage == StageRejected
}

// CanTransition allows one step forward along the pipeline, or rejection from
// any stage that is not yet terminal.
func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StageRejected {
		return true
	}
	return nextStage[from] == to
}
