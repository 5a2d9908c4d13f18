package main

import (
	"context"

	"github.com/scott-cotton/cli"

	_ "github.com/htree-dev/go-htree/entry/boltsource"
	_ "github.com/htree-dev/go-htree/entry/yamlsource"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
