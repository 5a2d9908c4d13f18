package entry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

func TestParseURI(t *testing.T) {
	u, err := ParseURI("imas+hdf5://localhost/data/shot?run=3&mode=r#equilibrium/time_slice/0")
	if err != nil {
		t.Fatal(err)
	}
	if u.Schema != "imas" || u.Protocol != "hdf5" {
		t.Errorf("scheme split: %q %q", u.Schema, u.Protocol)
	}
	if u.Authority != "localhost" || u.Path != "/data/shot" {
		t.Errorf("authority/path: %q %q", u.Authority, u.Path)
	}
	if u.Query.Get("run") != "3" {
		t.Errorf("query: %v", u.Query)
	}
	if u.Fragment != "equilibrium/time_slice/0" {
		t.Errorf("fragment: %q", u.Fragment)
	}
}

func TestParseURIBare(t *testing.T) {
	u, err := ParseURI("memory://")
	if err != nil {
		t.Fatal(err)
	}
	if u.Schema != "" || u.Protocol != "memory" {
		t.Errorf("got %q %q", u.Schema, u.Protocol)
	}
	if _, err := ParseURI("no-scheme-here"); err == nil {
		t.Errorf("want error for schemeless input")
	}
}

func TestOpenMemory(t *testing.T) {
	e, err := Open("memory://")
	if err != nil {
		t.Fatal(err)
	}
	child := e.ChildKey("a")
	if err := child.Update(ir.FromInt(1)); err != nil {
		t.Fatal(err)
	}
	v, err := child.Find()
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromInt(1)) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

func TestOpenUnknownProtocol(t *testing.T) {
	_, err := Open("nosuch://x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenFragment(t *testing.T) {
	e, err := Open("memory://#a/b")
	if err != nil {
		t.Fatal(err)
	}
	if !e.Path().Equal(hpath.MustParse("a/b")) {
		t.Errorf("path = %v", e.Path())
	}
}

func TestOpenOptionsMerge(t *testing.T) {
	Register(&SourceFactory{
		Protocol: "opts-probe",
		Defaults: map[string]any{"mode": "r", "kept": "yes"},
		New: func(cfg *Config) (Source, error) {
			if cfg.Options["mode"] != "rw" {
				return nil, errors.New("query did not override default")
			}
			if cfg.Options["kept"] != "yes" {
				return nil, errors.New("default lost")
			}
			return NewMemory(nil), nil
		},
	})
	if _, err := Open("opts-probe://x?mode=rw"); err != nil {
		t.Fatal(err)
	}
}

func TestOpenWithSchemaMapping(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "local", "global", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(table), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(table, []byte("pressure: raw/p_${run}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prev := mappingPath
	SetMappingPath([]string{dir})
	defer SetMappingPath(prev)

	Register(&SourceFactory{
		Protocol: "mapped-probe",
		New: func(cfg *Config) (Source, error) {
			return NewMemory(mustNodeAny(map[string]any{
				"raw": map[string]any{"p_7": 101.5},
			})), nil
		},
	})

	e, err := Open("local+mapped-probe://host?run=7", WithSchema("global"))
	if err != nil {
		t.Fatal(err)
	}
	v, err := e.ChildKey("pressure").Find()
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromFloat(101.5)) {
		t.Errorf("pressure = %v", ir.ToAny(v))
	}
}

func TestOpenMissingMapping(t *testing.T) {
	prev := mappingPath
	SetMappingPath(nil)
	defer SetMappingPath(prev)
	_, err := Open("local+memory://", WithSchema("global"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func mustNodeAny(v any) *ir.Node {
	n, err := ir.FromAny(v)
	if err != nil {
		panic(err)
	}
	return n
}
