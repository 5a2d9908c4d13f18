package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{Vars: map[string]string{}}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		},
		&cli.Opt{
			Name:        "e",
			Description: "set a mapping variable",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(varOptTypeFunc(cfg.Vars)), "(name=val)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "ht").
		WithSynopsis("ht [opts] command [opts]").
		WithDescription("ht is a tool for working with hierarchical data documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return htMain(cfg, cc, args)
		}).
		WithSubs(
			GetCommand(cfg),
			ListCommand(cfg),
			PutCommand(cfg),
			DelCommand(cfg),
			DiffCommand(cfg),
			ProtocolsCommand(cfg))
}

func varOptTypeFunc(vars map[string]string) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := varFunc(vars, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g", "ge").
		WithSynopsis("get <hpath> [docs]").
		WithDescription("get the first value matching a path from documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func ListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ListConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l").
		WithSynopsis("list <hpath> [docs]").
		WithDescription("list all values matching a path from documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

func PutCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PutConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Put, "put").
		WithAliases("p", "pu").
		WithSynopsis("put [-a] <hpath> <value> [docs]").
		WithDescription("merge a value into documents at a path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return put(cfg, cc, args)
		})
}

func DelCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DelConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Del, "del").
		WithAliases("d", "de").
		WithSynopsis("del <hpath> [docs]").
		WithDescription("delete values matching a path from documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return del(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("di").
		WithOpts(opts...).
		WithSynopsis("diff <doc-a> <doc-b>").
		WithDescription("diff two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ProtocolsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ProtocolsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Protocols, "protocols").
		WithSynopsis("protocols").
		WithDescription("list registered source protocols").
		WithRun(func(cc *cli.Context, args []string) error {
			return protocols(cfg, cc, args)
		})
}
