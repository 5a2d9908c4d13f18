package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Path  bool
	Query bool
	Entry bool
	Tree  bool
	Flush bool
}

var d *debug

func init() {
	d = &debug{}
	d.Path = boolEnv("HT_DEBUG_PATH")
	d.Query = boolEnv("HT_DEBUG_QUERY")
	d.Entry = boolEnv("HT_DEBUG_ENTRY")
	d.Tree = boolEnv("HT_DEBUG_TREE")
	d.Flush = boolEnv("HT_DEBUG_FLUSH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Path() bool {
	return d.Path
}
func Query() bool {
	return d.Query
}
func Entry() bool {
	return d.Entry
}
func Tree() bool {
	return d.Tree
}
func Flush() bool {
	return d.Flush
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
