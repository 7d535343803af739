package analysis

// StageDone is the marker reported after the last stage, unconditionally,
// right before the terminal event.
const StageDone = "done"

// stages is the fixed ordered stage set. A run reports each stage exactly
// once, in this order. The set is configuration, not computed.
var stages = []string{
	"loading input",
	"preprocessing",
	"building waterfall",
	"clustering windows",
	"scanning candidates",
	"writing results",
}

// Stages returns a copy of the ordered stage set.
func Stages() []string {
	out := make([]string, len(stages))
	copy(out, stages)
	return out
}

// StageCount returns the number of stages, excluding the StageDone marker.
func StageCount() int {
	return len(stages)
}
