package yamlsource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestFind(t *testing.T) {
	file := writeDoc(t, "doc.yaml", "a:\n  b: [1, 2, 3]\n")
	s, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.Find(hpath.MustParse("a/b/1"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromInt(2)) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

func TestUpdateSyncRoundTrip(t *testing.T) {
	file := writeDoc(t, "doc.yaml", "a: 1\n")
	s, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(hpath.MustParse("b/c"), ir.FromString("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Sync(); err != nil {
		t.Fatal(err)
	}

	again, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	v, err := again.Find(hpath.MustParse("b/c"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromString("x")) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

func TestMissingFileStartsEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "new.yaml")
	s, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.Find(hpath.MustParse("anything"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.IsAbsent(v) {
		t.Errorf("got %v", ir.ToAny(v))
	}
	if err := s.Update(hpath.MustParse("a"), ir.FromInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("close did not write: %v", err)
	}
}

func TestReadOnly(t *testing.T) {
	file := writeDoc(t, "doc.yaml", "a: 1\n")
	s, err := Open(file, ReadOnly())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(hpath.MustParse("a"), ir.FromInt(2)); !errors.Is(err, entry.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if _, err := s.Delete(hpath.MustParse("a")); !errors.Is(err, entry.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestJSONDocument(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"a": {"b": 7}}`)
	s, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.Find(hpath.MustParse("a/b"))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(v, ir.FromInt(7)) {
		t.Errorf("got %v", ir.ToAny(v))
	}
}

func TestBadDocument(t *testing.T) {
	file := writeDoc(t, "doc.yaml", ":\n  - not: [valid")
	if _, err := Open(file); !errors.Is(err, entry.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenViaURI(t *testing.T) {
	file := writeDoc(t, "doc.yaml", "eq:\n  time: [0.1, 0.2]\n")
	e, err := entry.Open("yaml://" + file + "#eq")
	if err != nil {
		t.Fatal(err)
	}
	v, err := e.ChildKey("time").Find()
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != ir.SeqType || v.Len() != 2 {
		t.Errorf("time = %v", ir.ToAny(v))
	}
}
