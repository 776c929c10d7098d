package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sidebyside/cmd/sidebyside/commands"
	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
	"git.home.luguber.info/inful/sidebyside/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}
	ctx := kong.Parse(&cli,
		kong.Name("sidebyside"),
		kong.Description("Render before/after transform examples as side-by-side HTML fragments."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
		kong.Bind(global),
	)
	global.Logger = slog.Default()

	if err := ctx.Run(global, &cli); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		os.Exit(adapter.Report(err))
	}
}
