package watcher

// ChangeAnalysis describes what a change means for the loaded forest
type ChangeAnalysis struct {
	NeedReload   bool
	SourceGone   bool
	ChangedFiles []string
}

// AnalyzeChanges decides how to react to a debounced event. A removed source
// does not trigger a reload; the last good forest stays loaded until the file
// comes back.
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{ChangedFiles: event.Paths}

	switch event.Type {
	case ChangeTypeModified:
		analysis.NeedReload = true
	case ChangeTypeRemoved:
		analysis.SourceGone = true
	}

	return analysis
}
