package textdiff

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/htree-dev/go-htree/encode"
	"github.com/htree-dev/go-htree/ir"
)

type Option func(*config)

type config struct {
	format  encode.Format
	colored bool
}

func WithFormat(f encode.Format) Option {
	return func(c *config) { c.format = f }
}

func WithColor(v bool) Option {
	return func(c *config) { c.colored = v }
}

// Unified renders from and to and returns a line diff of the text.
// Unchanged lines carry a two-space prefix, removals "- " and
// additions "+ ". Identical documents yield the empty string.
func Unified(from, to *ir.Node, opts ...Option) (string, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	a, err := render(from, cfg.format)
	if err != nil {
		return "", err
	}
	b, err := render(to, cfg.format)
	if err != nil {
		return "", err
	}
	if a == b {
		return "", nil
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		for _, ln := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				sb.WriteString(paint(cfg, color.FgRed, "- "+ln) + "\n")
			case diffpatch.DiffInsert:
				sb.WriteString(paint(cfg, color.FgGreen, "+ "+ln) + "\n")
			default:
				sb.WriteString("  " + ln + "\n")
			}
		}
	}
	return sb.String(), nil
}

func render(n *ir.Node, f encode.Format) (string, error) {
	var sb strings.Builder
	if err := encode.Encode(n, &sb, encode.EncodeFormat(f)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func paint(cfg *config, attr color.Attribute, s string) string {
	if !cfg.colored {
		return s
	}
	return color.New(attr).Sprint(s)
}
