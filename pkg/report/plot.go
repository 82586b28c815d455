package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	plotPageTitle  = "Import Check Report"
	plotHeight     = "560px"
	plotMaxFiles   = 30
	plotXAxisTilt  = 35
	colorUnused    = "#ee6666"
	colorDuplicate = "#fac858"
)

type fileCounts struct {
	file       string
	unused     int
	duplicates int
}

// RenderPlot writes an HTML page with a stacked bar chart of the files with
// the most findings.
func RenderPlot(w io.Writer, result *RunResult, root string) error {
	counts := topFiles(result, plotMaxFiles)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: plotPageTitle,
			Width:     "100%",
			Height:    plotHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    plotPageTitle,
			Subtitle: plotSubtitle(result, root, len(counts)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%", Left: "center"}),
		charts.WithGridOpts(opts.Grid{Top: "20%", Bottom: "15%", ContainLabel: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: plotXAxisTilt, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Imports"}),
	)

	labels := make([]string, 0, len(counts))
	unused := make([]opts.BarData, 0, len(counts))
	duplicates := make([]opts.BarData, 0, len(counts))

	for _, c := range counts {
		labels = append(labels, c.file)
		unused = append(unused, opts.BarData{Value: c.unused})
		duplicates = append(duplicates, opts.BarData{Value: c.duplicates})
	}

	bar.SetXAxis(labels).
		AddSeries("Unused", unused, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorUnused})).
		AddSeries("Duplicates", duplicates, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorDuplicate})).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "findings"}))

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func plotSubtitle(result *RunResult, root string, shown int) string {
	stats := result.Stats
	if shown == 0 {
		return fmt.Sprintf("%s: %d files scanned, no findings", root, stats.TotalFiles)
	}

	return fmt.Sprintf("%s: %d unused and %d duplicate imports in %d files (top %d shown)",
		root, stats.TotalUnusedImports, stats.TotalDuplicateImports, stats.TotalFiles, shown)
}

// topFiles merges per-file counts and keeps the limit files with the most
// findings. Ties keep scan order.
func topFiles(result *RunResult, limit int) []fileCounts {
	index := make(map[string]int)

	var counts []fileCounts

	entry := func(file string) *fileCounts {
		idx, ok := index[file]
		if !ok {
			idx = len(counts)
			index[file] = idx
			counts = append(counts, fileCounts{file: file})
		}

		return &counts[idx]
	}

	for _, u := range result.UnusedImports {
		entry(u.File).unused += len(u.Unused)
	}

	for _, d := range result.DuplicateImports {
		entry(d.File).duplicates += len(d.Duplicates)
	}

	slices.SortStableFunc(counts, func(a, b fileCounts) int {
		return cmp.Compare(b.unused+b.duplicates, a.unused+a.duplicates)
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}

	return counts
}
