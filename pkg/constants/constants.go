// Package constants provides shared constants for the finance-pro application.
package constants

// Default scenario values. These are also the fallbacks applied to any field
// missing from a persisted snapshot.
const (
	// DefaultRevenue is the default monthly revenue.
	DefaultRevenue = 15000.0

	// DefaultOwnerDraw is the default monthly pro-labore.
	DefaultOwnerDraw = 2500.0

	// DefaultFlatFee is the default monthly DAS amount under MEI.
	DefaultFlatFee = 75.0

	// DefaultRevenueTaxRate is the default effective Simples Nacional rate (%).
	DefaultRevenueTaxRate = 6.0

	// DefaultOtherTaxes is the default amount of other taxes and fees.
	DefaultOtherTaxes = 0.0
)

// Default profit allocation targets (%).
const (
	DefaultReservePct      = 10.0
	DefaultFutureTaxesPct  = 5.0
	DefaultReinvestmentPct = 10.0
	DefaultDistributionPct = 20.0
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DisplayPercentPrecision is the precision for displayed percentages (1 decimal place)
	DisplayPercentPrecision = 10

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FallbackDirectCostRatio is the direct cost ratio assumed by the break-even
	// estimate when there is no revenue to derive it from.
	FallbackDirectCostRatio = 0.5

	// MaxPercentage is the upper bound of rate and allocation dials.
	MaxPercentage = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Export constants
const (
	// ExpenseExportFilename is the file name offered for the expense CSV download.
	ExpenseExportFilename = "despesas.csv"

	// ExportSeparator separates CSV columns in the expense export.
	ExportSeparator = ';'
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides (FINANCE_PRO_STORE_BACKEND, ...).
	EnvPrefix = "FINANCE_PRO"
)

// Store constants
const (
	// DefaultSnapshotKey is the fixed key holding the persisted snapshot.
	DefaultSnapshotKey = "financeapp_pro_state"

	// StoreBackendFile keeps snapshots as JSON files on disk.
	StoreBackendFile = "file"

	// StoreBackendRedis keeps snapshots in Redis.
	StoreBackendRedis = "redis"

	// StoreBackendPostgres keeps snapshots in a Postgres table.
	StoreBackendPostgres = "postgres"

	// StoreBackendMemory keeps snapshots in process memory only.
	StoreBackendMemory = "memory"

	// DefaultStorePath is the directory used by the file backend.
	DefaultStorePath = ".finance-pro"

	// DefaultSnapshotTable is the table used by the postgres backend.
	DefaultSnapshotTable = "snapshots"

	// DefaultStoreTimeoutSeconds bounds a single load or save.
	DefaultStoreTimeoutSeconds = 2
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)
