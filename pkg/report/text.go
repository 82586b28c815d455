package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/importcheck/pkg/terminal"
)

const (
	reportTitle = "IMPORT CHECK REPORT"

	sectionUnused     = "UNUSED IMPORTS"
	sectionDuplicates = "DUPLICATE IMPORTS"

	msgNoUnused     = "[OK] No unused imports found!"
	msgNoDuplicates = "[OK] No duplicate imports found!"

	toleranceNote = "Matching is lexical: a name that appears in a comment or string counts as used, " +
		"and scope or shadowing is not considered. Review candidates before removing them."
)

type palette struct {
	heading *color.Color
	file    *color.Color
	unused  *color.Color
	dup     *color.Color
	ok      *color.Color
	muted   *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.Bold),
		file:    color.New(color.FgCyan),
		unused:  color.New(color.FgRed),
		dup:     color.New(color.FgYellow),
		ok:      color.New(color.FgGreen),
		muted:   color.New(color.FgHiBlack),
	}

	// Otherwise fatih/color decides from the output stream and NO_COLOR.
	if noColor {
		for _, c := range []*color.Color{p.heading, p.file, p.unused, p.dup, p.ok, p.muted} {
			c.DisableColor()
		}
	}

	return p
}

// TextRenderer writes the human-readable report.
type TextRenderer struct {
	cfg     terminal.Config
	palette palette
}

// NewTextRenderer creates a TextRenderer for the given terminal.
func NewTextRenderer(cfg terminal.Config) *TextRenderer {
	if cfg.Width <= 0 {
		cfg.Width = terminal.DefaultWidth
	}

	return &TextRenderer{cfg: cfg, palette: newPalette(cfg.NoColor)}
}

// Render writes the header, the statistics block and one section per
// finding category.
func (r *TextRenderer) Render(w io.Writer, result *RunResult, root string) error {
	var sb strings.Builder

	files := humanize.Comma(int64(result.Stats.TotalFiles)) + " files"

	sb.WriteString(terminal.DrawHeader(reportTitle, files, r.cfg.Width))
	sb.WriteString("\n")

	if root != "" {
		sb.WriteString(r.palette.muted.Sprintf("Root directory: %s", root))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(r.palette.heading.Sprint("Statistics"))
	sb.WriteString("\n")
	sb.WriteString(r.statsTable(result.Stats))
	sb.WriteString("\n")

	r.writeUnused(&sb, result.UnusedImports)
	r.writeDuplicates(&sb, result.DuplicateImports)

	sb.WriteString("\n")
	sb.WriteString(terminal.DrawSeparator(r.cfg.Width))
	sb.WriteString("\n")
	sb.WriteString(r.palette.muted.Sprint(toleranceNote))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

func (r *TextRenderer) statsTable(stats Stats) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Options.SeparateRows = false

	rows := []struct {
		label string
		value int
	}{
		{"Total files scanned", stats.TotalFiles},
		{"Files with unused imports", stats.FilesWithUnused},
		{"Files with duplicate imports", stats.FilesWithDuplicates},
		{"Total unused imports", stats.TotalUnusedImports},
		{"Total duplicate imports", stats.TotalDuplicateImports},
	}

	for _, row := range rows {
		tbl.AppendRow(table.Row{row.label, humanize.Comma(int64(row.value))})
	}

	if stats.ReadFailures > 0 {
		tbl.AppendRow(table.Row{"Files skipped (read errors)", humanize.Comma(int64(stats.ReadFailures))})
	}

	return tbl.Render()
}

func (r *TextRenderer) writeUnused(sb *strings.Builder, entries []UnusedEntry) {
	if len(entries) == 0 {
		sb.WriteString("\n" + r.palette.ok.Sprint(msgNoUnused) + "\n")

		return
	}

	r.writeSectionTitle(sb, sectionUnused)

	for _, entry := range entries {
		sb.WriteString("\n" + r.palette.file.Sprintf("[FILE] %s", entry.File) + "\n")

		for _, desc := range entry.Unused {
			sb.WriteString("  " + r.palette.unused.Sprintf("[X] %s", desc) + "\n")
		}
	}
}

func (r *TextRenderer) writeDuplicates(sb *strings.Builder, entries []DuplicateEntry) {
	if len(entries) == 0 {
		sb.WriteString("\n" + r.palette.ok.Sprint(msgNoDuplicates) + "\n")

		return
	}

	r.writeSectionTitle(sb, sectionDuplicates)

	for _, entry := range entries {
		sb.WriteString("\n" + r.palette.file.Sprintf("[FILE] %s", entry.File) + "\n")

		for _, desc := range entry.Duplicates {
			sb.WriteString("  " + r.palette.dup.Sprintf("[DUP] %s", desc) + "\n")
		}
	}
}

func (r *TextRenderer) writeSectionTitle(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(terminal.DrawSeparator(r.cfg.Width))
	sb.WriteString("\n")
	sb.WriteString(r.palette.heading.Sprint(title))
	sb.WriteString("\n")
	sb.WriteString(terminal.DrawSeparator(r.cfg.Width))
	sb.WriteString("\n")
}
