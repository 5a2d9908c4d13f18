package hpath

import (
	"strconv"
	"strings"
)

// Parse turns a path expression into a Path. Delimiters are "/" and ".";
// "[...]" holds slices, fan-outs and sub-selectors, "{...}" a predicate
// (with a top-level ":") or a keyed fan-out (without), "(...)" an ordered
// fan-out, "*" all children, "**" all descendants, ".." the parent and
// "..." all ancestors. A leading "/" anchors the path at the root.
// Structural tags resolve eagerly during construction, exactly as with
// Append.
func Parse(s string) (Path, error) {
	segs, err := parseSegments(s, s, 0)
	if err != nil {
		return nil, err
	}
	return New(segs...), nil
}

// MustParse is Parse for known-good expressions; it panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// parseSegments scans one expression into raw segments. input and base
// carry the enclosing expression and offset for error reporting.
func parseSegments(s, input string, base int) ([]Segment, error) {
	var segs []Segment
	var buf strings.Builder

	flush := func(at int) error {
		if buf.Len() == 0 {
			return nil
		}
		text := buf.String()
		buf.Reset()
		seg, err := classify(text, input, at)
		if err != nil {
			return err
		}
		segs = append(segs, seg)
		return nil
	}

	i := 0
	if strings.HasPrefix(s, "/") {
		segs = append(segs, Root())
		i++
	}
	for i < len(s) {
		switch c := s[i]; c {
		case '/':
			if err := flush(base + i); err != nil {
				return nil, err
			}
			i++
		case '.':
			if err := flush(base + i); err != nil {
				return nil, err
			}
			n := 0
			for i+n < len(s) && s[i+n] == '.' {
				n++
			}
			switch n {
			case 1:
				// plain delimiter
			case 2:
				segs = append(segs, Parent())
			case 3:
				segs = append(segs, Ancestors())
			default:
				return nil, syntaxErr(input, base+i, "too many dots")
			}
			i += n
		case '[', '{', '(':
			if err := flush(base + i); err != nil {
				return nil, err
			}
			end, err := matchGroup(s, i, input, base)
			if err != nil {
				return nil, err
			}
			inner := s[i+1 : end]
			var seg []Segment
			switch c {
			case '[':
				seg, err = parseBracket(inner, input, base+i+1)
			case '{':
				var one Segment
				one, err = parseBrace(inner, input, base+i+1)
				seg = []Segment{one}
			case '(':
				var one Segment
				one, err = parseFanOut(inner, input, base+i+1)
				seg = []Segment{one}
			}
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg...)
			i = end + 1
		case '\'', '"':
			end := i + 1
			for end < len(s) && s[end] != c {
				if s[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(s) {
				return nil, syntaxErr(input, base+i, "unterminated quote")
			}
			unq := strings.NewReplacer("\\'", "'", "\\\"", "\"", "\\\\", "\\")
			buf.WriteString(unq.Replace(s[i+1 : end]))
			// quoted text always reads as a key
			text := buf.String()
			buf.Reset()
			segs = append(segs, Key(text))
			i = end + 1
		case ']', '}', ')':
			return nil, syntaxErr(input, base+i, "unmatched %q", string(c))
		default:
			buf.WriteByte(c)
			i++
		}
	}
	if err := flush(base + i); err != nil {
		return nil, err
	}
	return segs, nil
}

// classify interprets one delimiter-free segment token.
func classify(text, input string, at int) (Segment, error) {
	switch text {
	case "*":
		return Wildcard(), nil
	case "**":
		return Descendants(), nil
	case "$parent":
		return Parent(), nil
	case "$root":
		return Root(), nil
	case "$current":
		return Current(), nil
	case "$children":
		return Children(), nil
	case "$descendants":
		return Descendants(), nil
	case "$siblings":
		return Siblings(), nil
	case "$ancestors":
		return Ancestors(), nil
	case "$append":
		return Append(), nil
	case "$extend":
		return Extend(), nil
	}
	if strings.HasPrefix(text, "$") {
		return Segment{}, syntaxErr(input, at, "unknown tag %q", text)
	}
	if n, err := strconv.Atoi(text); err == nil {
		return Index(n), nil
	}
	return Key(text), nil
}

// matchGroup returns the index of the bracket matching s[open],
// honoring nesting and quotes.
func matchGroup(s string, open int, input string, base int) (int, error) {
	pairs := map[byte]byte{'[': ']', '{': '}', '(': ')'}
	var stack []byte
	stack = append(stack, pairs[s[open]])
	for i := open + 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '[', '{', '(':
			stack = append(stack, pairs[c])
		case ']', '}', ')':
			if c != stack[len(stack)-1] {
				return 0, syntaxErr(input, base+i, "unmatched %q", string(c))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		case '\'', '"':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
			if i >= len(s) {
				return 0, syntaxErr(input, base+i, "unterminated quote")
			}
		}
	}
	return 0, syntaxErr(input, base+open, "unterminated %q", string(s[open]))
}

// parseBracket interprets "[...]" content: a slice, or a fan-out, or a
// single nested segment such as an index or wildcard.
func parseBracket(inner, input string, at int) ([]Segment, error) {
	if isSlice(inner) {
		seg, err := parseSlice(inner, input, at)
		if err != nil {
			return nil, err
		}
		return []Segment{seg}, nil
	}
	parts := splitTop(inner, ',')
	paths := make([]Path, len(parts))
	off := at
	for i, part := range parts {
		segs, err := parseSegments(part, input, off)
		if err != nil {
			return nil, err
		}
		paths[i] = Path(segs)
		off += len(part) + 1
	}
	if len(paths) == 1 && len(paths[0]) == 1 {
		return []Segment{paths[0][0]}, nil
	}
	return []Segment{FanOut(paths...)}, nil
}

// parseBrace interprets "{...}" content: a predicate when a top-level
// ":" is present, a keyed fan-out otherwise.
func parseBrace(inner, input string, at int) (Segment, error) {
	clauses := splitTop(inner, ',')
	isQuery := false
	for _, cl := range clauses {
		if _, _, ok := cutTop(cl, ':'); ok {
			isQuery = true
			break
		}
	}
	if !isQuery {
		paths := make([]Path, len(clauses))
		off := at
		for i, part := range clauses {
			segs, err := parseSegments(part, input, off)
			if err != nil {
				return Segment{}, err
			}
			paths[i] = Path(segs)
			off += len(part) + 1
		}
		return FanOutSet(paths...), nil
	}
	q, err := parseQuery(clauses, input, at)
	if err != nil {
		return Segment{}, err
	}
	return Predicate(q), nil
}

func parseFanOut(inner, input string, at int) (Segment, error) {
	parts := splitTop(inner, ',')
	paths := make([]Path, len(parts))
	off := at
	for i, part := range parts {
		segs, err := parseSegments(part, input, off)
		if err != nil {
			return Segment{}, err
		}
		paths[i] = Path(segs)
		off += len(part) + 1
	}
	return FanOut(paths...), nil
}

// parseQuery parses predicate clauses of the form "subpath:literal",
// "subpath.op:literal", or "expr:<program>".
func parseQuery(clauses []string, input string, at int) (*Query, error) {
	q := &Query{}
	off := at
	for _, cl := range clauses {
		left, right, ok := cutTop(cl, ':')
		if !ok {
			return nil, syntaxErr(input, off, "predicate clause %q has no ':'", cl)
		}
		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "expr" {
			c, err := ExprClause(right)
			if err != nil {
				return nil, syntaxErr(input, off, "%v", err)
			}
			q.Clauses = append(q.Clauses, c)
			off += len(cl) + 1
			continue
		}
		op := OpEq
		if dot := strings.LastIndexByte(left, '.'); dot >= 0 {
			if o, ok := opByName[left[dot+1:]]; ok {
				op = o
				left = left[:dot]
			}
		}
		var sub Path
		if left != "" {
			segs, err := parseSegments(left, input, off)
			if err != nil {
				return nil, err
			}
			sub = Path(segs)
		}
		q.Clauses = append(q.Clauses, Clause{
			Path:    sub,
			Op:      op,
			Operand: parseLiteral(right),
		})
		off += len(cl) + 1
	}
	return q, nil
}

func isSlice(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	for _, part := range strings.Split(s, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return strings.Count(s, ":") <= 2
}

func parseSlice(s, input string, at int) (Segment, error) {
	parts := strings.Split(s, ":")
	bounds := make([]*int, 3)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Segment{}, syntaxErr(input, at, "bad slice bound %q", part)
		}
		bounds[i] = &n
	}
	if bounds[2] != nil && *bounds[2] == 0 {
		return Segment{}, syntaxErr(input, at, "slice step cannot be 0")
	}
	return Slice(bounds[0], bounds[1], bounds[2]), nil
}

// splitTop splits on sep outside any nesting or quoting.
func splitTop(s string, sep byte) []string {
	var res []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case '\'', '"':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case sep:
			if depth == 0 {
				res = append(res, s[start:i])
				start = i + 1
			}
		}
	}
	res = append(res, s[start:])
	return res
}

// cutTop is strings.Cut on the first top-level occurrence of sep.
func cutTop(s string, sep byte) (left, right string, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case '\'', '"':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}
