package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/export"
	"github.com/matzehuels/mcl/pkg/observability"
	"github.com/matzehuels/mcl/pkg/render/nodelink"
)

// Render produces one output format for a compiled unit. Diagram formats
// need the unit's netlist.
func Render(ctx context.Context, u *Unit, format string, detailed bool) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if u.Document == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s was not compiled", u.Name)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := render(ctx, u, format, detailed)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s of %s", format, u.Name)
	}
	return data, nil
}

func render(ctx context.Context, u *Unit, format string, detailed bool) ([]byte, error) {
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := export.WriteJSON(u.Document, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if u.Netlist == nil {
		return nil, errors.New(errors.ErrCodeInternal, "netlist not available")
	}
	dot := nodelink.ToDOT(u.Netlist, nodelink.Options{Detailed: detailed})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nodelink.RenderPNG(ctx, dot, 2.0)
	}
}
