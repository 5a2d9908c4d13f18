package entry

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"

	"github.com/htree-dev/go-htree/debug"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

// URI is a parsed resource address of the form
// <local-schema>+<protocol>://<authority><path>?<query>#<fragment>.
// The local schema part is optional; without it the scheme is just the
// protocol.
type URI struct {
	Schema    string
	Protocol  string
	Authority string
	Path      string
	Query     url.Values
	Fragment  string
}

func ParseURI(s string) (*URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrUnavailable, s)
	}
	res := &URI{
		Protocol:  u.Scheme,
		Authority: u.Host,
		Path:      u.Path,
		Query:     u.Query(),
		Fragment:  u.Fragment,
	}
	if schema, protocol, ok := strings.Cut(u.Scheme, "+"); ok {
		res.Schema = schema
		res.Protocol = protocol
	}
	return res, nil
}

func (u *URI) String() string {
	scheme := u.Protocol
	if u.Schema != "" {
		scheme = u.Schema + "+" + u.Protocol
	}
	res := url.URL{
		Scheme:   scheme,
		Host:     u.Authority,
		Path:     u.Path,
		RawQuery: u.Query.Encode(),
		Fragment: u.Fragment,
	}
	return res.String()
}

// mappingPath is the ordered list of directories searched for schema
// translation tables, seeded from HT_MAPPING_PATH.
var mappingPath = filepath.SplitList(os.Getenv("HT_MAPPING_PATH"))

// SetMappingPath replaces the translation table search path.
func SetMappingPath(dirs []string) {
	mappingPath = dirs
}

type openOpts struct {
	schema string
	vars   map[string]string
}

type OpenOption func(*openOpts)

// WithSchema names the schema the caller expects. When it differs from
// the URI's local schema, the opened source is wrapped in a Proxy using
// the translation table found on the mapping search path.
func WithSchema(schema string) OpenOption {
	return func(o *openOpts) { o.schema = schema }
}

// WithVars supplies ${var} substitutions for translation table rows.
func WithVars(vars map[string]string) OpenOption {
	return func(o *openOpts) { o.vars = vars }
}

// Open opens a source from a URI and returns an entry positioned at the
// URI fragment. The protocol picks the factory; query parameters
// override the factory's option defaults.
func Open(uri string, opts ...OpenOption) (*Entry, error) {
	var o openOpts
	for _, opt := range opts {
		opt(&o)
	}
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	f, err := lookupFactory(u.Protocol)
	if err != nil {
		return nil, err
	}
	options := map[string]any{}
	if err := mergo.Merge(&options, f.Defaults); err != nil {
		return nil, err
	}
	queryOpts := map[string]any{}
	for k, vs := range u.Query {
		if len(vs) > 0 {
			queryOpts[k] = vs[0]
		}
	}
	if err := mergo.Merge(&options, queryOpts, mergo.WithOverride); err != nil {
		return nil, err
	}
	src, err := f.New(&Config{URI: u, Options: options})
	if err != nil {
		return nil, err
	}
	if o.schema != "" && u.Schema != "" && o.schema != u.Schema {
		mapping, err := loadMapping(u.Schema, o.schema, u.Protocol)
		if err != nil {
			return nil, err
		}
		vars := map[string]string{"authority": u.Authority, "path": u.Path}
		for k, v := range options {
			if s, ok := v.(string); ok {
				vars[k] = s
			}
		}
		for k, v := range o.vars {
			vars[k] = v
		}
		src = NewProxy(mapping, src, vars)
	}
	e := New(src)
	if u.Fragment != "" {
		p, err := hpath.Parse(u.Fragment)
		if err != nil {
			return nil, err
		}
		e = e.Child(p)
	}
	return e, nil
}

// loadMapping locates and loads the translation table for presenting
// data with the local schema under the global one. Candidates, most
// specific first, under each search path directory:
//
//	<local>/<global>/<protocol>/config.yaml
//	<local>/<global>/config.yaml
func loadMapping(local, global, protocol string) (Source, error) {
	var tried []string
	for _, dir := range mappingPath {
		for _, rel := range []string{
			filepath.Join(local, global, protocol, "config.yaml"),
			filepath.Join(local, global, "config.yaml"),
		} {
			file := filepath.Join(dir, rel)
			d, err := os.ReadFile(file)
			if err != nil {
				tried = append(tried, file)
				continue
			}
			var v any
			if err := yaml.Unmarshal(d, &v); err != nil {
				return nil, fmt.Errorf("%w: mapping table %s: %v", ErrUnavailable, file, err)
			}
			table, err := ir.FromAny(v)
			if err != nil {
				return nil, fmt.Errorf("%w: mapping table %s: %v", ErrUnavailable, file, err)
			}
			if debug.Entry() {
				debug.Logf("mapping table %s loaded for %s -> %s\n", file, local, global)
			}
			return NewMemory(table), nil
		}
	}
	return nil, fmt.Errorf("%w: no mapping table for %s -> %s (tried %s)",
		ErrUnavailable, local, global, strings.Join(tried, ", "))
}
