// Package constants provides shared constants for the loan-calculator application.
package constants

// DateLayout is the format expected for start dates on the CLI, in config
// files and in API payloads. It is also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// CalculationEpsilon is the tolerance used when checking arithmetic
	// identities such as net + fee == amount.
	CalculationEpsilon = 1e-6

	// DaysPerPaymentPeriod is the fixed spacing between scheduled payments.
	// Payments are not aligned to calendar months.
	DaysPerPaymentPeriod = 30

	// CurrencySymbol prefixes formatted amounts (Zambian Kwacha).
	CurrencySymbol = "K"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "LOANCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (5 MB),
	// large enough for a scanned document upload.
	DefaultMaxBodySizeBytes int64 = 5 * 1024 * 1024

	// DefaultDraftTTLHours is how long a draft application is kept in Redis
	DefaultDraftTTLHours = 72
)
