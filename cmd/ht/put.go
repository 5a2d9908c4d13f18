package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

func put(cfg *PutConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Put.Parse(cc, args)
	if err != nil {
		cfg.Put.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 3 {
		return fmt.Errorf("%w: put wants an hpath, a value and at least one document", cli.ErrUsage)
	}
	p, err := hpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if cfg.Insert {
		p = p.Append(hpath.Append())
	}
	v, err := parseValue(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, arg := range args[2:] {
		if err := updateArg(cfg.MainConfig, arg, p, v); err != nil {
			return fmt.Errorf("error updating %s at %s: %w", arg, p, err)
		}
	}
	return nil
}

func updateArg(cfg *MainConfig, arg string, p hpath.Path, v *ir.Node) error {
	e, err := openDoc(cfg, arg)
	if err != nil {
		return err
	}
	src := e.Source()
	defer src.Close()
	return src.Update(p, v)
}

func del(cfg *DelConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Del.Parse(cc, args)
	if err != nil {
		cfg.Del.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: del wants an hpath and at least one document", cli.ErrUsage)
	}
	p, err := hpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, arg := range args[1:] {
		e, err := openDoc(cfg.MainConfig, arg)
		if err != nil {
			return err
		}
		_, err = e.Child(p).Delete()
		if cerr := e.Source().Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("error deleting %s from %s: %w", p, arg, err)
		}
	}
	return nil
}
