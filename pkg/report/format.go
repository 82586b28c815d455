package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/importcheck/pkg/persist"
	"github.com/Sumatoshi-tech/importcheck/pkg/terminal"
)

// Format selects how a result is rendered.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPlot Format = "plot"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatPlot}
}

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatText, nil
	}

	for _, known := range Formats() {
		if format == known {
			return format, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// RenderOptions configures Render.
type RenderOptions struct {
	Format   Format
	Root     string
	Terminal terminal.Config
}

// Render writes result to w in the requested format.
func Render(w io.Writer, result *RunResult, opts RenderOptions) error {
	switch opts.Format {
	case FormatText, "":
		return NewTextRenderer(opts.Terminal).Render(w, result, opts.Root)
	case FormatJSON:
		return persist.NewJSONCodec().Encode(w, result)
	case FormatYAML:
		return persist.NewYAMLCodec().Encode(w, result)
	case FormatPlot:
		return RenderPlot(w, result, opts.Root)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}
