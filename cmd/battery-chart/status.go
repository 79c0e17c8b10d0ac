package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

var (
	primary = lipgloss.Color("#7896FF")
	muted   = lipgloss.Color("#888888")
	warning = lipgloss.Color("#FBBF24")

	headerStyle = lipgloss.NewStyle().Foreground(primary).Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(muted).Width(16)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(warning)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent battery record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadLog()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStatus(cfg.Storage.LogPath, res))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func renderStatus(path string, res *storage.Result) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Battery") + "\n")

	info := res.Info
	if info == nil {
		b.WriteString(noteStyle.Render("No records in "+path) + "\n")
		return boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
	}

	row := func(k, v string) {
		b.WriteString(keyStyle.Render(k) + valueStyle.Render(v) + "\n")
	}
	row("Last sample", info.Timestamp)
	row("Charge", fmt.Sprintf("%.2f%%", info.Percentage))
	row("State", info.State.String())
	if info.Model != "" {
		row("Model", info.Model)
	}
	if info.CycleCount != nil {
		row("Cycles", fmt.Sprintf("%d", *info.CycleCount))
	}
	row("Energy", fmt.Sprintf("%.2f Wh", info.Energy))
	row("Full", fmt.Sprintf("%.2f Wh", info.EnergyFull))
	row("Design", fmt.Sprintf("%.2f Wh", info.EnergyFullDesign))
	if h := info.Health(); h > 0 {
		row("Health", fmt.Sprintf("%.1f%%", h))
	}
	row("Voltage", fmt.Sprintf("%.2f V", info.Voltage))

	summary := fmt.Sprintf("%d records in %s", len(res.Points), path)
	if res.Skipped > 0 || res.Defaulted > 0 {
		summary += fmt.Sprintf(" (%d short lines skipped, %d fields defaulted)", res.Skipped, res.Defaulted)
	}
	b.WriteString(keyStyle.UnsetWidth().Render(summary))

	return boxStyle.Render(b.String())
}
