package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	bestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	phaseStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("5")).Foreground(lipgloss.Color("15"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// trainingDone is sent when the training goroutine returns.
type trainingDone struct{ err error }

type progressModel struct {
	runID       string
	fitness     string
	generations int
	startTime   time.Time

	last    *generationUpdate
	history []string
	done    bool
	err     error

	updates <-chan generationUpdate
}

func newProgressModel(runID, fitness string, generations int, updates <-chan generationUpdate) progressModel {
	return progressModel{
		runID:       runID,
		fitness:     fitness,
		generations: generations,
		startTime:   time.Now(),
		updates:     updates,
	}
}

func waitForGeneration(updates <-chan generationUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return u
	}
}

func (m progressModel) Init() tea.Cmd {
	return waitForGeneration(m.updates)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case generationUpdate:
		m.last = &msg
		line := fmt.Sprintf("gen %3d  %-11s max %7.3f  mean %7.3f  div %.3f  %s",
			msg.Generation, msg.Phase, msg.Fitness.Max, msg.Fitness.Mean, msg.Diversity, msg.Elapsed.Round(time.Millisecond))
		m.history = append([]string{line}, m.history...)
		if len(m.history) > 10 {
			m.history = m.history[:10]
		}
		return m, waitForGeneration(m.updates)
	case trainingDone:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("training %s (%s)", m.fitness, m.runID)))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	row("Elapsed", time.Since(m.startTime).Round(time.Second).String())
	if m.last == nil {
		row("Generation", fmt.Sprintf("0/%d", m.generations))
	} else {
		row("Generation", fmt.Sprintf("%d/%d %s", m.last.Generation+1, m.generations, phaseStyle.Render(m.last.Phase.String())))
		row("Best", bestStyle.Render(fmt.Sprintf("%.3f", m.last.Fitness.Max)))
		row("Mean", fmt.Sprintf("%.3f", m.last.Fitness.Mean))
		row("Worst", fmt.Sprintf("%.3f", m.last.Fitness.Min))
		row("Diversity", fmt.Sprintf("%.3f", m.last.Diversity))
		if m.last.Path != "" {
			row("Last file", m.last.Path)
		}
	}

	if len(m.history) > 0 {
		sb.WriteString("\nRecent generations:\n")
		for _, h := range m.history {
			sb.WriteString(h)
			sb.WriteByte('\n')
		}
	}

	switch {
	case m.err != nil:
		sb.WriteString("\nstopped: " + m.err.Error() + "\n")
	case m.done:
		sb.WriteString("\ndone\n")
	default:
		sb.WriteString(helpStyle.Render("Press q to stop after the current generation."))
		sb.WriteByte('\n')
	}
	return sb.String()
}
