package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/mcl/pkg/errors"
)

// rsvgBinary is the librsvg command line tool used for raster and PDF output.
var rsvgBinary = "rsvg-convert"

const installHint = "install librsvg (brew install librsvg, apt install librsvg2-bin)"

// ToPDF converts an SVG diagram to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an SVG diagram to PNG. A scale of 2 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convertSVG(ctx context.Context, svg []byte, format string, flags ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s output needs %s: %s", format, rsvgBinary, installHint)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, flags...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s conversion failed: %s", format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
