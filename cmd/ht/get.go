package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/htree-dev/go-htree/encode"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: get wants an hpath and at least one document", cli.ErrUsage)
	}
	p, err := hpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, arg := range args[1:] {
		if err := queryArg(cfg.MainConfig, cc.Out, arg, p, false); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, p, err)
		}
	}
	return nil
}

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: list wants an hpath and at least one document", cli.ErrUsage)
	}
	p, err := hpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, arg := range args[1:] {
		if err := queryArg(cfg.MainConfig, cc.Out, arg, p, true); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, p, err)
		}
	}
	return nil
}

func queryArg(cfg *MainConfig, w io.Writer, arg string, p hpath.Path, list bool) error {
	e, err := openDoc(cfg, arg)
	if err != nil {
		return err
	}
	defer e.Source().Close()
	child := e.Child(p)
	if list {
		var res []*ir.Node
		for n := range child.Search() {
			res = append(res, n.Clone())
		}
		return encode.Encode(ir.FromSlice(res), w, cfg.encOpts(w)...)
	}
	res, err := child.Find()
	if err != nil {
		return err
	}
	if ir.IsAbsent(res) {
		// nothing found, nothing to print
		return nil
	}
	return encode.Encode(res, w, cfg.encOpts(w)...)
}
