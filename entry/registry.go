package entry

import (
	"fmt"
)

// Config carries everything a source factory needs to open a backend:
// the parsed URI and the option map (factory defaults overridden by the
// URI query parameters).
type Config struct {
	URI     *URI
	Options map[string]any
}

// SourceFactory opens sources for one protocol. Factories register
// themselves at init time; protocol dispatch is an explicit map lookup,
// nothing reflective.
type SourceFactory struct {
	Protocol string
	Defaults map[string]any
	New      func(cfg *Config) (Source, error)
}

var registry = map[string]*SourceFactory{}

// Register installs a factory for its protocol. Registering the same
// protocol twice panics; it is a wiring bug.
func Register(f *SourceFactory) {
	if f.Protocol == "" {
		panic("entry: factory without protocol")
	}
	if _, ok := registry[f.Protocol]; ok {
		panic(fmt.Sprintf("entry: duplicate factory for protocol %q", f.Protocol))
	}
	registry[f.Protocol] = f
}

// Protocols returns the registered protocol names.
func Protocols() []string {
	res := make([]string, 0, len(registry))
	for p := range registry {
		res = append(res, p)
	}
	return res
}

func lookupFactory(protocol string) (*SourceFactory, error) {
	f, ok := registry[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: no source registered for protocol %q", ErrUnavailable, protocol)
	}
	return f, nil
}

func init() {
	Register(&SourceFactory{
		Protocol: "memory",
		New: func(cfg *Config) (Source, error) {
			return NewMemory(nil), nil
		},
	})
}
