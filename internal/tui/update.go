package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Standard tea.Msg types
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pricingModel.SetSize(msg.Width, msg.Height)
		m.regimesModel.SetSize(msg.Width, msg.Height)
		return m, nil

	// Custom messages
	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		if msg.Scene == SceneRegimes && m.lastRequest != nil {
			return m, compareRegimesCmd(m.solver, *m.lastRequest)
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ConfigLoadedMsg:
		m.loading = false
		m.config = msg.Config
		if msg.Solver != nil {
			m.solver = msg.Solver
		}
		m.pricingModel.SetConfig(msg.Config)
		return m, nil

	case tuimsg.PricingRequestedMsg:
		req := msg.Request
		m.lastRequest = &req
		return m, analyzePricingCmd(m.solver, req)

	case tuimsg.PricingCompleteMsg:
		m.pricingModel.SetResult(msg.Analysis, msg.Curve, msg.Err)
		return m, nil

	case tuimsg.RegimesCompleteMsg:
		m.regimesModel.SetComparison(msg.Comparison, msg.Err)
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any other key dismisses an error
	if m.err != nil && msg.String() != "ctrl+c" {
		m.err = nil
		return m, nil
	}

	// Global keyboard shortcuts. Form fields only take numbers, so letters
	// are free for navigation.
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != ScenePricing {
			return m, navigate(m.previousScene)
		}

	case "p":
		if m.currentScene != ScenePricing {
			return m, navigate(ScenePricing)
		}

	case "r":
		return m, navigate(SceneRegimes)
	}

	// Let the current scene handle other keys
	return m.updateCurrentScene(msg)
}

// navigate returns a command switching to a scene
func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case ScenePricing:
		m.pricingModel, cmd = m.pricingModel.Update(msg)
	case SceneRegimes:
		m.regimesModel, cmd = m.regimesModel.Update(msg)
	}
	return m, cmd
}
