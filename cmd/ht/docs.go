package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/ir"
)

// openDoc resolves a document argument to an entry. Bare file names
// get a protocol from their extension; anything with "://" is a
// source URI.
func openDoc(cfg *MainConfig, arg string) (*entry.Entry, error) {
	uri := arg
	if !strings.Contains(uri, "://") {
		uri = guessProtocol(arg) + "://" + arg
	}
	e, err := entry.Open(uri, entry.WithVars(cfg.Vars))
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", arg, err)
	}
	return e, nil
}

func guessProtocol(arg string) string {
	switch {
	case strings.HasSuffix(arg, ".json"):
		return "json"
	case strings.HasSuffix(arg, ".db"), strings.HasSuffix(arg, ".bolt"):
		return "bolt"
	default:
		return "yaml"
	}
}

// parseValue reads a command line value argument as a YAML document.
func parseValue(s string) (*ir.Node, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("error parsing value %q: %w", s, err)
	}
	return ir.FromAny(v)
}
