package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/htree-dev/go-htree/encode"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	OutFormat *encode.Format

	Out      string
	CloseOut func() error

	Vars map[string]string

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**encode.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := encode.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) format() encode.Format {
	switch {
	case cfg.J:
		return encode.JSONFormat
	case cfg.Y:
		return encode.YAMLFormat
	}
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return encode.YAMLFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) colorized(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type ListConfig struct {
	*MainConfig

	List *cli.Command
}

type PutConfig struct {
	*MainConfig
	Insert bool `cli:"name=a aliases=append desc='append instead of merging'"`

	Put *cli.Command
}

type DelConfig struct {
	*MainConfig

	Del *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type ProtocolsConfig struct {
	*MainConfig

	Protocols *cli.Command
}
