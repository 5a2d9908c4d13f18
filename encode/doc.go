// Package encode renders IR nodes as text.
//
// The default output is block-style YAML; JSONFormat selects indented
// JSON instead. Colors may be attached for terminal output.
//
//	var buf bytes.Buffer
//	err := encode.Encode(node, &buf)
//	err = encode.Encode(node, &buf, encode.EncodeFormat(encode.JSONFormat))
//	err = encode.Encode(node, os.Stdout, encode.EncodeColors(encode.NewColors()))
package encode
