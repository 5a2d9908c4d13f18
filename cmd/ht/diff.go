package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/ir"
	"github.com/htree-dev/go-htree/textdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff wants two documents", cli.ErrUsage)
	}
	from, err := loadDoc(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	to, err := loadDoc(cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	out, err := textdiff.Unified(from, to,
		textdiff.WithFormat(cfg.format()),
		textdiff.WithColor(cfg.colorized(cc.Out)))
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(cc.Out, out); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func loadDoc(cfg *MainConfig, arg string) (*ir.Node, error) {
	e, err := openDoc(cfg, arg)
	if err != nil {
		return nil, err
	}
	defer e.Source().Close()
	return e.Find()
}

func protocols(cfg *ProtocolsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Protocols.Parse(cc, args)
	if err != nil {
		cfg.Protocols.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: protocols takes no arguments", cli.ErrUsage)
	}
	for _, p := range entry.Protocols() {
		fmt.Fprintln(cc.Out, p)
	}
	return nil
}
