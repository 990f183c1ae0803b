package pipeline

import "github.com/rotisserie/eris"

// Stage names one step of the lead pipeline. Stages run in a fixed order and
// each one persists a CSV artifact, so a run can be resumed from any stage
// using the previous stage's output.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageClassify  Stage = "classify"
	StageScore     Stage = "score"
	StageRoute     Stage = "route"
)

// stageOrder is the execution sequence. Resume reads the artifact of the
// stage preceding the requested one.
var stageOrder = []Stage{StageNormalize, StageClassify, StageScore, StageRoute}

// artifacts maps each stage to the file it writes under the data directory.
var artifacts = map[Stage]string{
	StageNormalize: "leads_normalized.csv",
	StageClassify:  "leads_classified.csv",
	StageScore:     "leads_scored.csv",
	StageRoute:     "leads_routed.csv",
}

// ParseStage validates a stage name from the CLI.
func ParseStage(s string) (Stage, error) {
	for _, st := range stageOrder {
		if Stage(s) == st {
			return st, nil
		}
	}
	return "", eris.Errorf("pipeline: unknown stage %q", s)
}

// stageIndex returns the position of st in the execution order.
func stageIndex(st Stage) int {
	for i, s := range stageOrder {
		if s == st {
			return i
		}
	}
	return -1
}
