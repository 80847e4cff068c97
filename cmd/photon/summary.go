package main

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Width(11)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))
)

// summary describes a finished render.
type summary struct {
	Scene     string
	Width     int
	Height    int
	Samples   int
	Bounces   int
	Objects   int
	Triangles int
	Elapsed   time.Duration
	Output    string
	Uploaded  string
}

func (s summary) rows() [][2]string {
	rows := [][2]string{
		{"scene", s.Scene},
		{"size", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"samples", fmt.Sprint(s.Samples)},
		{"bounces", fmt.Sprint(s.Bounces)},
		{"objects", fmt.Sprintf("%d (%d triangles)", s.Objects, s.Triangles)},
		{"time", s.Elapsed.Round(time.Millisecond).String()},
		{"output", s.Output},
	}
	if s.Uploaded != "" {
		rows = append(rows, [2]string{"uploaded", s.Uploaded})
	}
	return rows
}

func printSummary(w io.Writer, s summary) {
	lines := []string{titleStyle.Render("photon render complete")}
	for _, r := range s.rows() {
		lines = append(lines, labelStyle.Render(r[0])+valueStyle.Render(r[1]))
	}
	lipgloss.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
