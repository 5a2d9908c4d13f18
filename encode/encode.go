package encode

import (
	"encoding/base64"
	"io"
	"strconv"
	"strings"

	"github.com/htree-dev/go-htree/ir"
)

// Encode writes node to w in the selected format, followed by a
// newline. Map entries whose value is absent are omitted; a nil or
// absent node encodes as null.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	var err error
	if es.format.IsJSON() {
		err = encodeJSON(node, w, es)
	} else {
		err = encodeYAML(node, w, es)
	}
	if err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func writeNL(w io.Writer, es *EncState) error {
	return writeString(w, "\n"+strings.Repeat(strings.Repeat(" ", es.indent), es.depth))
}

func numberString(n *ir.Node) string {
	if n.Int64 != nil {
		return strconv.FormatInt(*n.Int64, 10)
	}
	return strconv.FormatFloat(*n.Float64, 'g', -1, 64)
}

// YAML

func encodeYAML(n *ir.Node, w io.Writer, es *EncState) error {
	if s, ok := yamlInline(n, es); ok {
		return writeString(w, s)
	}
	switch n.Type {
	case ir.BytesType:
		return writeString(w, yamlEntry("$bytes", es)+" "+
			es.color(ir.BytesType, ValueColor, base64.StdEncoding.EncodeToString(n.Bytes)))
	case ir.ArrayType:
		data := make([]string, len(n.Data))
		for i, x := range n.Data {
			data[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		shape := make([]string, len(n.Shape))
		for i, d := range n.Shape {
			shape[i] = strconv.Itoa(d)
		}
		if err := writeString(w, yamlEntry("$array", es)+" "+flowSeq(data, ir.ArrayType, es)); err != nil {
			return err
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		return writeString(w, yamlEntry("$shape", es)+" "+flowSeq(shape, ir.ArrayType, es))
	case ir.SeqType:
		for i, v := range n.Values {
			if i > 0 {
				if err := writeNL(w, es); err != nil {
					return err
				}
			}
			if s, ok := yamlInline(v, es); ok {
				if err := writeString(w, es.color(ir.SeqType, SepColor, "-")+" "+s); err != nil {
					return err
				}
				continue
			}
			if err := writeString(w, es.color(ir.SeqType, SepColor, "-")); err != nil {
				return err
			}
			es.depth++
			if err := writeNL(w, es); err != nil {
				return err
			}
			if err := encodeYAML(v, w, es); err != nil {
				return err
			}
			es.depth--
		}
		return nil
	case ir.MapType:
		first := true
		for i, f := range n.Fields {
			v := n.Values[i]
			if ir.IsAbsent(v) {
				continue
			}
			if !first {
				if err := writeNL(w, es); err != nil {
					return err
				}
			}
			first = false
			key := yamlEntry(f.String, es)
			if s, ok := yamlInline(v, es); ok {
				if err := writeString(w, key+" "+s); err != nil {
					return err
				}
				continue
			}
			if err := writeString(w, key); err != nil {
				return err
			}
			es.depth++
			if err := writeNL(w, es); err != nil {
				return err
			}
			if err := encodeYAML(v, w, es); err != nil {
				return err
			}
			es.depth--
		}
		return nil
	}
	return nil
}

func yamlEntry(field string, es *EncState) string {
	return es.color(ir.MapType, FieldColor, yamlString(field)) +
		es.color(ir.MapType, SepColor, ":")
}

// yamlInline renders leaf values and empty containers on one line.
func yamlInline(n *ir.Node, es *EncState) (string, bool) {
	if n == nil {
		n = ir.Absent()
	}
	switch n.Type {
	case ir.AbsentType, ir.NullType:
		return es.color(ir.NullType, ValueColor, "null"), true
	case ir.BoolType:
		return es.color(ir.BoolType, ValueColor, strconv.FormatBool(n.Bool)), true
	case ir.NumberType:
		return es.color(ir.NumberType, ValueColor, numberString(n)), true
	case ir.StringType:
		return es.color(ir.StringType, ValueColor, yamlString(n.String)), true
	case ir.SeqType:
		if len(n.Values) == 0 {
			return es.color(ir.SeqType, SepColor, "[]"), true
		}
	case ir.MapType:
		if len(n.Fields) == 0 {
			return es.color(ir.MapType, SepColor, "{}"), true
		}
	}
	return "", false
}

// yamlString quotes a scalar when the plain form would be ambiguous.
func yamlString(s string) string {
	if s == "" || s != strings.TrimSpace(s) ||
		strings.ContainsAny(s, ":#{}[],&*!|>'\"%@`\n\t") ||
		strings.HasPrefix(s, "- ") || s == "-" ||
		looksLikeScalar(s) {
		return strconv.Quote(s)
	}
	return s
}

func looksLikeScalar(s string) bool {
	switch strings.ToLower(s) {
	case "null", "~", "true", "false", "yes", "no", "on", "off":
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func flowSeq(elems []string, t ir.Type, es *EncState) string {
	for i, e := range elems {
		elems[i] = es.color(ir.NumberType, ValueColor, e)
	}
	return es.color(t, SepColor, "[") +
		strings.Join(elems, es.color(t, SepColor, ", ")) +
		es.color(t, SepColor, "]")
}

// JSON

func encodeJSON(n *ir.Node, w io.Writer, es *EncState) error {
	if n == nil {
		n = ir.Absent()
	}
	switch n.Type {
	case ir.AbsentType, ir.NullType:
		return writeString(w, es.color(ir.NullType, ValueColor, "null"))
	case ir.BoolType:
		return writeString(w, es.color(ir.BoolType, ValueColor, strconv.FormatBool(n.Bool)))
	case ir.NumberType:
		return writeString(w, es.color(ir.NumberType, ValueColor, numberString(n)))
	case ir.StringType:
		return writeString(w, es.color(ir.StringType, ValueColor, strconv.Quote(n.String)))
	case ir.BytesType:
		return writeString(w,
			es.color(ir.MapType, SepColor, "{")+
				es.color(ir.MapType, FieldColor, `"$bytes"`)+
				es.color(ir.MapType, SepColor, ": ")+
				es.color(ir.BytesType, ValueColor, strconv.Quote(base64.StdEncoding.EncodeToString(n.Bytes)))+
				es.color(ir.MapType, SepColor, "}"))
	case ir.ArrayType:
		data := make([]string, len(n.Data))
		for i, x := range n.Data {
			data[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		shape := make([]string, len(n.Shape))
		for i, d := range n.Shape {
			shape[i] = strconv.Itoa(d)
		}
		return writeString(w,
			es.color(ir.MapType, SepColor, "{")+
				es.color(ir.MapType, FieldColor, `"$array"`)+
				es.color(ir.MapType, SepColor, ": ")+
				flowSeq(data, ir.ArrayType, es)+
				es.color(ir.MapType, SepColor, ", ")+
				es.color(ir.MapType, FieldColor, `"$shape"`)+
				es.color(ir.MapType, SepColor, ": ")+
				flowSeq(shape, ir.ArrayType, es)+
				es.color(ir.MapType, SepColor, "}"))
	case ir.SeqType:
		if len(n.Values) == 0 {
			return writeString(w, es.color(ir.SeqType, SepColor, "[]"))
		}
		if err := writeString(w, es.color(ir.SeqType, SepColor, "[")); err != nil {
			return err
		}
		es.depth++
		for i, v := range n.Values {
			if i > 0 {
				if err := writeString(w, es.color(ir.SeqType, SepColor, ",")); err != nil {
					return err
				}
			}
			if err := writeNL(w, es); err != nil {
				return err
			}
			if err := encodeJSON(v, w, es); err != nil {
				return err
			}
		}
		es.depth--
		if err := writeNL(w, es); err != nil {
			return err
		}
		return writeString(w, es.color(ir.SeqType, SepColor, "]"))
	case ir.MapType:
		present := 0
		for _, v := range n.Values {
			if !ir.IsAbsent(v) {
				present++
			}
		}
		if present == 0 {
			return writeString(w, es.color(ir.MapType, SepColor, "{}"))
		}
		if err := writeString(w, es.color(ir.MapType, SepColor, "{")); err != nil {
			return err
		}
		es.depth++
		written := 0
		for i, f := range n.Fields {
			v := n.Values[i]
			if ir.IsAbsent(v) {
				continue
			}
			if written > 0 {
				if err := writeString(w, es.color(ir.MapType, SepColor, ",")); err != nil {
					return err
				}
			}
			written++
			if err := writeNL(w, es); err != nil {
				return err
			}
			entry := es.color(ir.MapType, FieldColor, strconv.Quote(f.String)) +
				es.color(ir.MapType, SepColor, ": ")
			if err := writeString(w, entry); err != nil {
				return err
			}
			if err := encodeJSON(v, w, es); err != nil {
				return err
			}
		}
		es.depth--
		if err := writeNL(w, es); err != nil {
			return err
		}
		return writeString(w, es.color(ir.MapType, SepColor, "}"))
	}
	return nil
}
