package main

import (
	"github.com/alecthomas/kong"

	"github.com/miao-yu/build-process/cmd/buildproc/commands"
)

var version = "dev"

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("buildproc"),
		kong.Description("Asset-bundling orchestrator: bundles script, style, and markup entries into one self-consistent output directory."),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
