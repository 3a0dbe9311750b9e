package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/tomato/internal/export"
	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/preset"
	"github.com/sadopc/tomato/internal/store"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// formatFor returns the --format value if set, else the path's extension.
func formatFor(name, path string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	return export.FormatFromPath(path)
}

func exportCmd(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export settings and session history",
		Long: `Export settings, counters and session history.

JSON and YAML exports can be imported again. CSV contains the session
history only.

Examples:
  tomato export                         # tomato-backup-YYYY-MM-DD.json
  tomato export backup.yaml             # format from the extension
  tomato export sessions.txt -f csv     # explicit format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				f := export.FormatJSON
				if format != "" {
					var err error
					if f, err = export.ParseFormat(format); err != nil {
						return err
					}
				}
				path = export.FileName(s.now(), f)
			}

			f, err := formatFor(format, path)
			if err != nil {
				return err
			}

			b, err := s.store.LoadBundle()
			if err != nil {
				return err
			}
			if err := export.ToFile(b, f, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(b.History), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or csv (default: from extension)")
	return cmd
}

func importCmd(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import settings and history from an export",
		Long: `Import a JSON or YAML export. Fields that are missing or malformed are
skipped; everything else replaces the saved value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var patch export.Patch
			var err error
			if format != "" {
				f, ferr := export.ParseFormat(format)
				if ferr != nil {
					return ferr
				}
				patch, err = export.ReadFileAs(path, f)
			} else {
				patch, err = export.ReadFile(path)
			}
			if err != nil {
				return err
			}

			current, err := s.store.LoadBundle()
			if err != nil {
				return err
			}
			merged, res := patch.Apply(current)
			if len(res.Applied) == 0 {
				return fmt.Errorf("%w: no usable fields in %s", export.ErrInvalidBundle, path)
			}
			if err := s.store.SaveBundle(merged); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s\n", strings.Join(res.Applied, ", "))
			if len(res.Skipped) > 0 {
				fmt.Fprintf(out, "Skipped %s\n", strings.Join(res.Skipped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from extension)")
	return cmd
}

func reportCmd(s *session) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show daily and weekly focus totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := s.now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("parse date %q: %w", date, err)
				}
				ref = d.Add(12 * time.Hour)
			}

			from := ref.AddDate(0, 0, -8)
			records, err := s.store.FindSessions(store.SessionFilter{From: &from})
			if err != nil {
				return err
			}

			agg := history.Aggregator{Location: time.Local}
			day := agg.Daily(records, ref.In(time.Local).Format("2006-01-02"))
			week := agg.Weekly(records, ref)

			stored, err := s.store.CountSessions()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReport(day, week, stored))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "report day as YYYY-MM-DD (default: today)")
	return cmd
}

func renderReport(day history.Summary, week []history.Summary, stored int) string {
	var total history.Summary
	rows := make([][]string, 0, len(week))
	for _, s := range week {
		total.WorkCount += s.WorkCount
		total.BreakCount += s.BreakCount
		total.FocusMinutes += s.FocusMinutes
		rows = append(rows, []string{
			s.Date, strconv.Itoa(s.WorkCount), strconv.Itoa(s.BreakCount), strconv.Itoa(s.FocusMinutes),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Work", "Breaks", "Focus (min)").
		Rows(rows...).
		Row("Total", strconv.Itoa(total.WorkCount), strconv.Itoa(total.BreakCount), strconv.Itoa(total.FocusMinutes))

	summary := fmt.Sprintf("%s  %d work · %d break · %d min focus",
		headingStyle.Render(day.Date), day.WorkCount, day.BreakCount, day.FocusMinutes)

	footer := mutedStyle.Render(fmt.Sprintf("%d of %d sessions stored", stored, history.DefaultLimit))
	return strings.Join([]string{summary, "", mutedStyle.Render("Last 7 days"), t.String(), footer}, "\n")
}

func presetCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Show or change the timer preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.store.LoadBundle()
			if err != nil {
				return err
			}
			presets := preset.NewTable()
			if b.CustomPreset != nil {
				presets.SetCustom(b.CustomPreset.WorkMin, b.CustomPreset.BreakMin)
			}

			out := cmd.OutOrStdout()
			for _, id := range presets.IDs() {
				p, _ := presets.Resolve(id)
				marker := "  "
				if id == b.PresetID {
					marker = "* "
				}
				fmt.Fprintf(out, "%s%-7s %s\n", marker, id, p.Label)
			}
			return nil
		},
	}

	cmd.AddCommand(presetUseCmd(s), presetCustomCmd(s))
	return cmd
}

func presetUseCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Select a preset: " + strings.Join(preset.NewTable().IDs(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			presets := preset.NewTable()
			if !presets.Has(id) {
				return fmt.Errorf("unknown preset %q (want one of %s)", id, strings.Join(presets.IDs(), ", "))
			}
			if err := s.store.SetSetting(store.KeyPresetID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset set to %s\n", id)
			return nil
		},
	}
}

func presetCustomCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "custom <work-min> <break-min>",
		Short: "Set and select the custom preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			work, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse work minutes: %w", err)
			}
			brk, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse break minutes: %w", err)
			}

			work, brk = preset.NewTable().SetCustom(work, brk)
			if err := s.store.SetInt(store.KeyCustomWorkMin, work); err != nil {
				return err
			}
			if err := s.store.SetInt(store.KeyCustomBreakMin, brk); err != nil {
				return err
			}
			if err := s.store.SetSetting(store.KeyPresetID, preset.Custom); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Custom preset set to %d / %d\n", work, brk)
			return nil
		},
	}
}
