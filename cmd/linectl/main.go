package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"floor-backend/internal/cli"
	"floor-backend/internal/config"
	"floor-backend/internal/logger"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config   string `help:"Config file path." type:"path" default:"configs/config.yaml"`
	LogLevel string `help:"Log level." default:"warn" enum:"debug,info,warn,error"`

	Import  cli.ImportCmd  `cmd:"" help:"Bulk import machines or lines from CSV/XLSX."`
	Report  cli.ReportCmd  `cmd:"" help:"Render the dashboard of a period as PDF."`
	Migrate cli.MigrateCmd `cmd:"" help:"Apply pending PostgreSQL migrations."`
	User    struct {
		Add cli.UserAddCmd `cmd:"" help:"Create a user."`
	} `cmd:"" help:"Manage users."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("linectl"),
		kong.Description("Production floor administration"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Options{Level: CLI.LogLevel, Format: "console", Service: "linectl"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := cli.NewContext(ctx, cfg, log)
	err = kctx.Run(appCtx)
	appCtx.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
