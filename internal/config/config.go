// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-pro.
type Configuration struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store,omitempty"`
	Scenario ScenarioConfig `mapstructure:"scenario" yaml:"scenario,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Backend  string         `mapstructure:"backend" yaml:"backend,omitempty"` // file, redis, postgres, memory
	Path     string         `mapstructure:"path" yaml:"path,omitempty"`       // directory of the file backend
	Key      string         `mapstructure:"key" yaml:"key,omitempty"`
	Timeout  time.Duration  `mapstructure:"timeout" yaml:"timeout,omitempty"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis,omitempty"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres,omitempty"`
}

// RedisConfig holds the connection parameters of the redis backend.
type RedisConfig struct {
	Address  string `mapstructure:"address" yaml:"address,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db" yaml:"db,omitempty"`
}

// PostgresConfig holds the connection parameters of the postgres backend.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	Table string `mapstructure:"table" yaml:"table,omitempty"`
}

// ScenarioConfig is the starting scenario used when no snapshot exists.
type ScenarioConfig struct {
	Regime            string             `mapstructure:"regime" yaml:"regime,omitempty"`
	Revenue           float64            `mapstructure:"revenue" yaml:"revenue,omitempty"`
	OwnerDraw         float64            `mapstructure:"ownerDraw" yaml:"ownerDraw,omitempty"`
	FlatFee           float64            `mapstructure:"flatFee" yaml:"flatFee,omitempty"`
	RevenueTaxRate    float64            `mapstructure:"revenueTaxRate" yaml:"revenueTaxRate,omitempty"`
	OtherTaxes        float64            `mapstructure:"otherTaxes" yaml:"otherTaxes,omitempty"`
	Allocation        AllocationConfig   `mapstructure:"allocation" yaml:"allocation,omitempty"`
	OperatingExpenses []ExpenseConfig    `mapstructure:"operatingExpenses" yaml:"operatingExpenses,omitempty"`
	DirectCosts       []DirectCostConfig `mapstructure:"directCosts" yaml:"directCosts,omitempty"`
}

// AllocationConfig holds the four profit allocation targets in percent.
type AllocationConfig struct {
	Reserve      float64 `mapstructure:"reserve" yaml:"reserve"`
	FutureTaxes  float64 `mapstructure:"futureTaxes" yaml:"futureTaxes"`
	Reinvestment float64 `mapstructure:"reinvestment" yaml:"reinvestment"`
	Distribution float64 `mapstructure:"distribution" yaml:"distribution"`
}

// ExpenseConfig is a configured operating expense.
type ExpenseConfig struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	Amount   float64 `mapstructure:"amount" yaml:"amount"`
	Kind     string  `mapstructure:"kind" yaml:"kind"`
	Category string  `mapstructure:"category" yaml:"category,omitempty"`
}

// DirectCostConfig is a configured direct cost.
type DirectCostConfig struct {
	Name   string  `mapstructure:"name" yaml:"name"`
	Amount float64 `mapstructure:"amount" yaml:"amount"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path loads defaults and environment
// overrides only. A .env file next to the configuration, or in the working
// directory, is loaded into the environment first.
func LoadConfiguration(configPath string) (*Configuration, error) {
	loadEnvFile(configPath)

	if configPath == "" {
		return load(nil)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return load(bytes.NewReader(data))
}

// LoadConfigurationFromReader loads YAML configuration from r. Environment
// overrides still apply.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	return load(r)
}

func load(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if r != nil {
		if err := v.ReadConfig(r); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// An explicitly empty list replaces the default items; an absent one keeps them.
	if v.IsSet("scenario.operatingExpenses") && configuration.Scenario.OperatingExpenses == nil {
		configuration.Scenario.OperatingExpenses = []ExpenseConfig{}
	}
	if v.IsSet("scenario.directCosts") && configuration.Scenario.DirectCosts == nil {
		configuration.Scenario.DirectCosts = []DirectCostConfig{}
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("store.backend", constants.StoreBackendFile)
	v.SetDefault("store.path", constants.DefaultStorePath)
	v.SetDefault("store.key", constants.DefaultSnapshotKey)
	v.SetDefault("store.timeout", time.Duration(constants.DefaultStoreTimeoutSeconds)*time.Second)
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.table", constants.DefaultSnapshotTable)

	v.SetDefault("scenario.regime", "mei")
	v.SetDefault("scenario.revenue", constants.DefaultRevenue)
	v.SetDefault("scenario.ownerDraw", constants.DefaultOwnerDraw)
	v.SetDefault("scenario.flatFee", constants.DefaultFlatFee)
	v.SetDefault("scenario.revenueTaxRate", constants.DefaultRevenueTaxRate)
	v.SetDefault("scenario.otherTaxes", constants.DefaultOtherTaxes)
	v.SetDefault("scenario.allocation.reserve", constants.DefaultReservePct)
	v.SetDefault("scenario.allocation.futureTaxes", constants.DefaultFutureTaxesPct)
	v.SetDefault("scenario.allocation.reinvestment", constants.DefaultReinvestmentPct)
	v.SetDefault("scenario.allocation.distribution", constants.DefaultDistributionPct)
}

// loadEnvFile loads the first .env found next to the configuration file or
// in the working directory. Variables already set in the environment win.
func loadEnvFile(configPath string) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(configPath), ".env")}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}
