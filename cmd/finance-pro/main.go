package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/finance-pro/internal/config"
	"github.com/iwvelando/finance-pro/internal/logging"
	"github.com/iwvelando/finance-pro/internal/session"
	"github.com/iwvelando/finance-pro/internal/store"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	storeBackend := flag.String("store", "", "snapshot store override: file, redis, postgres, memory")
	storePath := flag.String("store-path", "", "directory of the file store")
	exportPath := flag.String("out", constants.ExpenseExportFilename, "destination of the export command, - for stdout")
	flag.Usage = usage
	flag.Parse()

	// A missing default config file is not an error; defaults apply.
	path := *configLocation
	if path == constants.DefaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *storeBackend != "" {
		conf.Store.Backend = *storeBackend
	}
	if *storePath != "" {
		conf.Store.Path = *storePath
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx := context.Background()
	st, err := store.New(ctx, conf.Store, logger)
	if err != nil {
		logger.Error("Snapshot store unavailable, changes will not be kept",
			zap.String("op", "main"),
			zap.String("backend", conf.Store.Backend),
			zap.Error(err),
		)
		st = store.NewMemoryStore()
	}

	sess := session.Open(ctx, st, conf.Store.Key, conf.Scenario.ToLedger(), logger,
		session.WithTimeout(conf.Store.Timeout))

	cmd := command{
		session:      sess,
		outputFormat: outputFormat,
		exportPath:   *exportPath,
		stdout:       os.Stdout,
	}
	runErr := cmd.run(flag.Args())

	if err := st.Close(); err != nil {
		logger.Warn("failed to close snapshot store",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	_ = logger.Sync()

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: finance-pro [flags] [command] [arguments]

Commands:
  report                                     print the financial report (default)
  export                                     write the operating expenses as CSV
  add-expense NAME AMOUNT KIND [CATEGORY]    add an operating expense (KIND fixed|variable)
  edit-expense ID NAME AMOUNT KIND [CATEGORY]
  remove-expense ID
  add-cost NAME AMOUNT                       add a direct cost
  edit-cost ID NAME AMOUNT
  remove-cost ID
  set FIELD VALUE                            set an input (regime, revenue, ownerDraw, flatFee,
                                             revenueTaxRate, otherTaxes, reserve, futureTaxes,
                                             reinvestment, distribution)
  reset                                      restore the starting scenario

Flags:
`)
	flag.PrintDefaults()
}
