package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msydata/dashboard/pkg/application/services"
	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/interfaces/api"
	"github.com/msydata/dashboard/pkg/interfaces/cli/output"
	"github.com/msydata/dashboard/pkg/logging"
	"github.com/msydata/dashboard/pkg/metrics"
)

// Config holds configuration for the dashboard command
type Config struct {
	DataDir     string
	ConfigFile  string
	OutputDir   string
	Format      string
	Verbose     bool
	Serve       bool
	Addr        string
	LogLevel    string
	Environment string
	Version     string
	Help        bool

	// Stdout receives rendered output; nil means os.Stdout
	Stdout io.Writer
	// LogOutput receives log records; nil means os.Stderr
	LogOutput io.Writer
	// Clock overrides the alert and generation date
	Clock services.Clock
}

// DashboardCommand runs the pipeline once or serves it over HTTP
type DashboardCommand struct {
	config Config
}

// NewDashboardCommand creates a new dashboard command with the given configuration
func NewDashboardCommand(config Config) *DashboardCommand {
	return &DashboardCommand{
		config: config,
	}
}

// Execute runs the dashboard command
func (c *DashboardCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	pipeline, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load pipeline config: %w", err)
	}

	logger := c.newLogger()
	m := metrics.New(metrics.DefaultConfig())
	service := services.NewDashboardService(pipeline, tabular.NewLoader(), logger, m, c.config.Clock)

	if c.config.Serve {
		return c.serve(ctx, service, m, logger)
	}

	if c.config.Verbose {
		c.printHeader(pipeline)
	}

	startTime := time.Now()
	dashboard, err := service.Build(ctx, c.config.DataDir)
	if err != nil {
		return fmt.Errorf("error building dashboard: %w", err)
	}
	buildTime := time.Since(startTime)

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		BuildTime: buildTime,
		Writer:    c.stdout(),
	}
	if err := output.Generate(dashboard, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// serve runs the HTTP delivery until ctx is cancelled
func (c *DashboardCommand) serve(ctx context.Context, builder api.DashboardBuilder, m *metrics.Metrics, logger *logging.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(builder, c.config.DataDir, logger), m, logger)

	server := &http.Server{
		Addr:              c.config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "addr", c.config.Addr, "dataDir", c.config.DataDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (c *DashboardCommand) newLogger() *logging.Logger {
	logConfig := logging.DefaultConfig("dashboard")
	if c.config.LogLevel != "" {
		logConfig.Level = logging.LogLevel(c.config.LogLevel)
	} else if c.config.Verbose {
		logConfig.Level = logging.LevelDebug
	}
	if c.config.Environment != "" {
		logConfig.Environment = c.config.Environment
	}
	if c.config.Version != "" {
		logConfig.Version = c.config.Version
	}
	if c.config.LogOutput != nil {
		logConfig.Output = c.config.LogOutput
	}

	logger := logging.New(logConfig)
	logger.SetDefault()
	return logger
}

func (c *DashboardCommand) stdout() io.Writer {
	if c.config.Stdout == nil {
		return os.Stdout
	}
	return c.config.Stdout
}

// validateInputs validates the command configuration
func (c *DashboardCommand) validateInputs() error {
	if c.config.DataDir == "" {
		return fmt.Errorf("must specify a -data directory")
	}
	info, err := os.Stat(c.config.DataDir)
	if err != nil {
		return fmt.Errorf("data directory not found: %s", c.config.DataDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path is not a directory: %s", c.config.DataDir)
	}
	if c.config.Serve && c.config.Addr == "" {
		return fmt.Errorf("must specify a listen address to serve")
	}
	if !c.config.Serve {
		switch c.config.Format {
		case "text", "json", "csv":
		default:
			return fmt.Errorf("unsupported output format: %s", c.config.Format)
		}
	}
	return nil
}

// printHeader prints the command header information
func (c *DashboardCommand) printHeader(pipeline config.Pipeline) {
	w := c.stdout()
	fmt.Fprintf(w, "🚀 Sales & Inventory Dashboard\n")
	fmt.Fprintf(w, "Data directory: %s\n", c.config.DataDir)
	fmt.Fprintf(w, "Months: ")
	for i, month := range pipeline.MonthOrder() {
		if i > 0 {
			fmt.Fprintf(w, ", ")
		}
		fmt.Fprintf(w, "%s", month)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Recipe file: %s\n", pipeline.RecipeFile)
	fmt.Fprintf(w, "Shipment file: %s\n", pipeline.ShipmentFile)
	fmt.Fprintf(w, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(w, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(w)
}

// showHelp displays the help message
func (c *DashboardCommand) showHelp() {
	fmt.Fprintf(c.stdout(), `Dashboard CLI - Sales analytics and ingredient inventory reconciliation

USAGE:
    dashboard -data <directory>            # Build the dashboard once and print it
    dashboard -data <directory> -serve     # Serve the dashboard over HTTP

OPTIONS:
    -data <dir>         Directory holding the monthly workbooks and the recipe/shipment files
    -config <file>      YAML file overriding the default pipeline tables (optional)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -serve              Serve the JSON API instead of printing once
    -addr <addr>        Listen address for -serve (default: :8080)
    -verbose            Enable verbose output
    -help               Show this help message

DATA DIRECTORY STRUCTURE:
    data/
    ├── May_Data_Matrix.xlsx ... October_Data_Matrix_*.xlsx
    ├── MSY Data - Ingredient.csv
    └── MSY Data - Shipment.csv

ENVIRONMENT:
    DASHBOARD_DATA_DIR, DASHBOARD_ADDR, DASHBOARD_CONFIG, LOG_LEVEL, ENVIRONMENT, VERSION
    A .env file in the working directory is loaded when present.

EXAMPLES:
    # Print the dashboard summary
    dashboard -data data -verbose

    # Write the record tables as CSV
    dashboard -data data -format csv -output results/

    # Serve the API
    dashboard -data data -serve -addr :8080
`)
}
