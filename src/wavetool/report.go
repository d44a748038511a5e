package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(14)
	okIcon     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	failIcon   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1)
)

func renderReport(r fileReport) string {
	var content strings.Builder
	name := filepath.Base(r.path)
	if r.err != nil {
		content.WriteString(failIcon + " " + titleStyle.Render(name) + "\n")
		content.WriteString(r.err.Error())
		return boxStyle.Render(content.String())
	}
	res := r.result
	content.WriteString(okIcon + " " + titleStyle.Render(name) + "\n")
	row := func(label, value string) {
		content.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("Mode", res.Mode.String())
	row("Periodicity", fmt.Sprintf("%.3f", res.Periodicity))
	row("Correlation", fmt.Sprintf("%.3f", res.Quality.Correlation))
	row("Residual", fmt.Sprintf("%.3f", res.Quality.SpectralResidual))
	row("NaN ratio", fmt.Sprintf("%.3f", res.Quality.NaNRatio))
	row("Sections", fmt.Sprintf("core %d / loop %d / release %d", len(res.CoreWave), len(res.LoopWave), len(res.ReleaseWave)))
	row("Output", r.out)
	content.WriteString(labelStyle.Render("Elapsed") + fmt.Sprintf("%.2fs", r.elapsed.Seconds()))
	return boxStyle.Render(content.String())
}
