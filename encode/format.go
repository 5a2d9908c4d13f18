package encode

import "fmt"

// Format selects the text form Encode produces.
type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

func (f Format) String() string {
	switch f {
	case JSONFormat:
		return "json"
	default:
		return "yaml"
	}
}

func (f Format) IsJSON() bool {
	return f == JSONFormat
}

// FormatSuffix returns the file extension for the given format.
func FormatSuffix(f Format) string {
	switch f {
	case JSONFormat:
		return ".json"
	default:
		return ".yaml"
	}
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "yaml", "yml":
		return YAMLFormat, nil
	case "json":
		return JSONFormat, nil
	}
	return YAMLFormat, fmt.Errorf("unknown format %q", s)
}
