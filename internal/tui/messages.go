package tui

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePricing Scene = iota
	SceneRegimes
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case ScenePricing:
		return "Minimum Price Calculator"
	case SceneRegimes:
		return "Comparison by Anexo"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
