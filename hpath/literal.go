package hpath

import (
	"strconv"
	"strings"

	"github.com/htree-dev/go-htree/ir"
)

// parseLiteral reads a predicate operand: null, booleans, numbers,
// quoted strings, or a bare string.
func parseLiteral(s string) *ir.Node {
	switch s {
	case "null", "~":
		return ir.Null()
	case "true":
		return ir.FromBool(true)
	case "false":
		return ir.FromBool(false)
	}
	if len(s) >= 2 {
		if c := s[0]; (c == '\'' || c == '"') && s[len(s)-1] == c {
			unq := strings.NewReplacer("\\'", "'", "\\\"", "\"", "\\\\", "\\")
			return ir.FromString(unq.Replace(s[1 : len(s)-1]))
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.FromInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return ir.FromFloat(f)
	}
	return ir.FromString(s)
}
