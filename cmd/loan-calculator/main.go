package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// loadConfiguration reads configPath. A missing default config file falls
// back to built-in defaults so the CLI works without one.
func loadConfiguration(configPath string) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(configPath)
	if err == nil {
		return conf, nil
	}
	if configPath == constants.DefaultConfigFile {
		if _, statErr := os.Stat(configPath); errors.Is(statErr, fs.ErrNotExist) {
			return config.Defaults(), nil
		}
	}
	return nil, err
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env file\", \"error\": \"%v\"}\n", err)
	}

	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	loanType := flag.String("loan-type", "", "loan type id (see -list)")
	amount := flag.Float64("amount", 0, "requested loan amount")
	duration := flag.Int("duration", 0, "loan duration in months")
	startDate := flag.String("start-date", "", "schedule start date (YYYY-MM-DD), defaults to today")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	list := flag.Bool("list", false, "list the available loan types and exit")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Debug("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	loanCatalog, err := conf.Catalog()
	if err != nil {
		logger.Fatal("failed to build loan type catalog",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *list {
		if err := output.WriteLoanTypes(os.Stdout, outputFormat, loanCatalog.ListLoanTypes()); err != nil {
			logger.Fatal("failed to write loan types", zap.String("op", "main"), zap.Error(err))
		}
		return
	}

	start, err := datetime.ParseDate(*startDate, time.Now())
	if err != nil {
		logger.Fatal("invalid start date",
			zap.String("op", "main"),
			zap.String("start_date", *startDate),
			zap.Error(err),
		)
	}

	svc := calculator.NewService(loanCatalog, logger)
	quote, err := svc.Quote(calculator.LoanQuoteRequest{
		LoanTypeID:     *loanType,
		Amount:         *amount,
		DurationMonths: *duration,
	})
	if err != nil {
		logger.Fatal("failed to compute quote",
			zap.String("op", "main"),
			zap.String("loan_type", *loanType),
			zap.Error(err),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, quote, svc.Schedule(quote, start)); err != nil {
		logger.Fatal("failed to write output", zap.String("op", "main"), zap.Error(err))
	}
}
