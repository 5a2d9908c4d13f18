// Package yamlsource backs an entry.Source with a YAML or JSON document
// on disk. The whole document is decoded on open and held in memory;
// mutations mark the source dirty and Sync writes the document back.
package yamlsource

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

type Source struct {
	file     string
	root     *ir.Node
	readOnly bool
	dirty    bool
}

type Option func(*Source)

// ReadOnly makes mutations return entry.ErrUnsupported.
func ReadOnly() Option {
	return func(s *Source) { s.readOnly = true }
}

// Open reads the document at file. A missing file opens as an empty
// writable document; any other read or decode failure is
// entry.ErrUnavailable.
func Open(file string, opts ...Option) (*Source, error) {
	s := &Source{file: file, root: ir.Absent()}
	for _, opt := range opts {
		opt(s)
	}
	d, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entry.ErrUnavailable, err)
	}
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entry.ErrUnavailable, file, err)
	}
	root, err := ir.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entry.ErrUnavailable, file, err)
	}
	s.root = root
	return s, nil
}

func (s *Source) Find(p hpath.Path) (*ir.Node, error) {
	return hpath.Find(s.root, p), nil
}

func (s *Source) Search(p hpath.Path) (iter.Seq[*ir.Node], error) {
	return hpath.Search(s.root, p), nil
}

func (s *Source) Update(p hpath.Path, v *ir.Node) error {
	if s.readOnly {
		return entry.ErrUnsupported
	}
	root, err := hpath.Update(s.root, p, v)
	if err != nil {
		return err
	}
	s.root = root
	s.dirty = true
	return nil
}

func (s *Source) Delete(p hpath.Path) (bool, error) {
	if s.readOnly {
		return false, entry.ErrUnsupported
	}
	removed := hpath.Delete(s.root, p)
	if removed {
		s.dirty = true
	}
	return removed, nil
}

// Sync writes the document back to disk when dirty. JSON files stay
// JSON; everything else is written as YAML.
func (s *Source) Sync() error {
	if !s.dirty {
		return nil
	}
	var d []byte
	var err error
	if strings.EqualFold(filepath.Ext(s.file), ".json") {
		d, err = json.MarshalIndent(ir.ToAny(s.root), "", "  ")
	} else {
		d, err = yaml.Marshal(ir.ToAny(s.root))
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.file, d, 0o644); err != nil {
		return fmt.Errorf("%w: %v", entry.ErrUnavailable, err)
	}
	s.dirty = false
	return nil
}

func (s *Source) Close() error {
	if s.readOnly {
		return nil
	}
	return s.Sync()
}

func init() {
	factory := func(cfg *entry.Config) (entry.Source, error) {
		var opts []Option
		if cfg.Options["mode"] == "r" {
			opts = append(opts, ReadOnly())
		}
		file := cfg.URI.Path
		if cfg.URI.Authority != "" {
			file = filepath.Join(cfg.URI.Authority, cfg.URI.Path)
		}
		return Open(file, opts...)
	}
	entry.Register(&entry.SourceFactory{
		Protocol: "yaml",
		Defaults: map[string]any{"mode": "rw"},
		New:      factory,
	})
	entry.Register(&entry.SourceFactory{
		Protocol: "json",
		Defaults: map[string]any{"mode": "rw"},
		New:      factory,
	})
}
