package hpath

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"a/b/c", Path{Key("a"), Key("b"), Key("c")}},
		{"a.b.c", Path{Key("a"), Key("b"), Key("c")}},
		{"/a/b", Path{Root(), Key("a"), Key("b")}},
		{"a/0/-1", Path{Key("a"), Index(0), Index(-1)}},
		{"a[2]", Path{Key("a"), Index(2)}},
		{"a/*", Path{Key("a"), Wildcard()}},
		{"a/**/b", Path{Key("a"), Descendants(), Key("b")}},
		{"a/$append", Path{Key("a"), Append()}},
		{"a/$extend", Path{Key("a"), Extend()}},
		{"a/$siblings", Path{Key("a"), Siblings()}},
		{"'a/b'/c", Path{Key("a/b"), Key("c")}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEagerTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b/..", "a"},
		{"a/b/../c", "a/c"},
		{"a/./b", "a/b"},
		{"a/$root/b", "/b"},
		{"..", ".."},
		{"../a", "../a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := MustParse(tt.in)
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSlice(t *testing.T) {
	p := MustParse("a[1:3]")
	if len(p) != 2 || p[1].Kind != KindSlice {
		t.Fatalf("got %v", p)
	}
	if *p[1].Start != 1 || *p[1].Stop != 3 || p[1].Step != nil {
		t.Errorf("bounds: %v %v %v", p[1].Start, p[1].Stop, p[1].Step)
	}
	p = MustParse("a[::2]")
	if p[1].Start != nil || p[1].Stop != nil || *p[1].Step != 2 {
		t.Errorf("open bounds: %+v", p[1])
	}
}

func TestParseFanOut(t *testing.T) {
	p := MustParse("a[b,c/d]")
	if len(p) != 2 || p[1].Kind != KindFanOut {
		t.Fatalf("got %v", p)
	}
	if len(p[1].Paths) != 2 || p[1].Paths[1].String() != "c/d" {
		t.Errorf("sub-paths: %v", p[1].Paths)
	}

	p = MustParse("a/(b,c)")
	if p[1].Kind != KindFanOut || len(p[1].Paths) != 2 {
		t.Errorf("tuple form: %v", p)
	}

	p = MustParse("a/{b,c}")
	if p[1].Kind != KindFanOutSet {
		t.Errorf("set form: %v", p)
	}
}

func TestParsePredicate(t *testing.T) {
	p := MustParse("wall/description_2d/{type/name:equilibrium,limiter.exists:true}")
	if len(p) != 3 || p[2].Kind != KindPredicate {
		t.Fatalf("got %v", p)
	}
	q := p[2].Query
	if len(q.Clauses) != 2 {
		t.Fatalf("clauses: %v", q.Clauses)
	}
	if q.Clauses[0].Op != OpEq || q.Clauses[0].Path.String() != "type/name" {
		t.Errorf("clause 0: %v", q.Clauses[0])
	}
	if q.Clauses[1].Op != OpExists {
		t.Errorf("clause 1: %v", q.Clauses[1])
	}
}

func TestParseExprPredicate(t *testing.T) {
	p := MustParse("items/{expr: value > 3}")
	if p[1].Kind != KindPredicate {
		t.Fatalf("got %v", p)
	}
	c := p[1].Query.Clauses[0]
	if c.Op != OpExpr || c.Program == nil {
		t.Errorf("expr clause: %+v", c)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"a[1:3", "a]b", "a/....", "$nope", "a/'b"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); err == nil {
				t.Errorf("Parse(%q): want error", in)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, in := range []string{
		"a/b/c",
		"/a/b",
		"a/0/-1",
		"a[1:3]",
		"a/*",
		"a/**/b",
		"a/$append",
		"a/{name:x}",
	} {
		t.Run(in, func(t *testing.T) {
			p := MustParse(in)
			again := MustParse(p.String())
			if !p.Equal(again) {
				t.Errorf("round trip %q -> %q -> %v", in, p, again)
			}
		})
	}
}

func TestAppendAssociative(t *testing.T) {
	a := MustParse("x/y")
	b := MustParse("../z")
	c := MustParse("../../w")
	left := a.Join(b).Join(c)
	right := a.Join(b.Join(c))
	if !left.Equal(right) {
		t.Errorf("(a/b)/c = %v, a/(b/c) = %v", left, right)
	}
	if got := left.String(); got != "w" {
		t.Errorf("resolved = %q, want \"w\"", got)
	}
}

func TestJoinRootClears(t *testing.T) {
	a := MustParse("x/y")
	b := MustParse("/z")
	if got := a.Join(b).String(); got != "/z" {
		t.Errorf("join = %q, want \"/z\"", got)
	}
}
