package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config string `help:"Path to the YAML config file." type:"path" default:"./config/config.yml"`

	SeedUser      SeedUserCmd      `cmd:"" help:"Create a user with a bcrypt-hashed password."`
	Token         TokenCmd         `cmd:"" help:"Mint a bearer token for a user id."`
	SetStreak     SetStreakCmd     `cmd:"" help:"Set a user's stored streak counter."`
	AddBadge      AddBadgeCmd      `cmd:"" help:"Award a badge to a user."`
	ImportCatalog ImportCatalogCmd `cmd:"" help:"Convert a word spreadsheet into catalog JSON."`
	CatalogCheck  CatalogCheckCmd  `cmd:"" help:"Validate and summarise a catalog file."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vocabctl"),
		kong.Description("Developer tooling for the learnwords backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if err := ctx.Run(&appContext{configPath: CLI.Config}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
