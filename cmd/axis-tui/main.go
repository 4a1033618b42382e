package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/axisacco/AXIS-ACCOUTING/internal/tui"
)

func main() {
	// The company file is optional; without one the calculator starts blank
	configPath := ""
	if len(os.Args) > 2 {
		fmt.Println("Usage: axis-tui [company-file]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		configPath = os.Args[1]
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Error: Company file not found: %s\n", configPath)
			os.Exit(1)
		}
	}

	model := tui.NewModel(configPath, nil)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
