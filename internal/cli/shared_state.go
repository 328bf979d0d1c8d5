package cli

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Active case context
	ActiveCaseID   string
	ActiveCaseName string

	// Active assignment context
	ActiveAssignmentID   string
	ActiveAssignmentName string

	// Terminal dimensions
	Width  int
	Height int
}

// ClearCaseContext resets the active case and assignment state.
func (s *SharedState) ClearCaseContext() {
	s.ActiveCaseID = ""
	s.ActiveCaseName = ""
	s.ActiveAssignmentID = ""
	s.ActiveAssignmentName = ""
}

// SetActiveCase sets the active case context.
func (s *SharedState) SetActiveCase(id, name string) {
	s.ActiveCaseID = id
	s.ActiveCaseName = name
}

// SetActiveAssignment sets the active assignment context.
func (s *SharedState) SetActiveAssignment(id, name string) {
	s.ActiveAssignmentID = id
	s.ActiveAssignmentName = name
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
