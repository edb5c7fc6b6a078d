package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/interfaces/cli/commands"
)

func main() {
	env := config.LoadEnv()

	// Command line flags
	var (
		dataDir    = flag.String("data", env.DataDir, "Directory holding the monthly workbooks and recipe/shipment files")
		configFile = flag.String("config", env.ConfigFile, "YAML file overriding the default pipeline tables")
		outputDir  = flag.String("output", "", "Output directory for results (optional)")
		format     = flag.String("format", "text", "Output format: text, json, csv")
		serve      = flag.Bool("serve", false, "Serve the JSON API")
		addr       = flag.String("addr", env.Addr, "Listen address for -serve")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	cfg := commands.Config{
		DataDir:     *dataDir,
		ConfigFile:  *configFile,
		OutputDir:   *outputDir,
		Format:      *format,
		Serve:       *serve,
		Addr:        *addr,
		Verbose:     *verbose,
		LogLevel:    env.LogLevel,
		Environment: env.Environment,
		Version:     env.Version,
		Help:        *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create and execute command
	cmd := commands.NewDashboardCommand(cfg)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
