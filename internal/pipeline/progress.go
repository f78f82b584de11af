package pipeline

// Stage is a synthetic progress checkpoint shown while a run is in flight
type Stage struct {
	Percent int
	Message string
}

var (
	StageInitializing = Stage{Percent: 0, Message: "Initializing VERIFACT system..."}
	StageLoading      = Stage{Percent: 20, Message: "Loading AI agents..."}
	StageAnalyzing    = Stage{Percent: 60, Message: "Executing multi-agent analysis..."}
	StageComplete     = Stage{Percent: 100, Message: "Analysis complete!"}
)

// Stages lists the checkpoints in the order a successful run reports them
func Stages() []Stage {
	return []Stage{StageInitializing, StageLoading, StageAnalyzing, StageComplete}
}

// ProgressFunc receives each stage as the run reaches it
type ProgressFunc func(Stage)
