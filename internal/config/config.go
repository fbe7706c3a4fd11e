// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	Logging   LoggingConfig            `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig             `mapstructure:"output" yaml:"output,omitempty"`
	Server    ServerConfig             `mapstructure:"server" yaml:"server,omitempty"`
	Redis     RedisConfig              `mapstructure:"redis" yaml:"redis,omitempty"`
	Database  DatabaseConfig           `mapstructure:"database" yaml:"database,omitempty"`
	LoanTypes []catalog.LoanTypeConfig `mapstructure:"loanTypes" yaml:"loanTypes,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"` // e.g. 512K, 5M
	Version     string `mapstructure:"version" yaml:"version,omitempty"`
}

// RedisConfig locates the draft application cache. An empty address keeps
// drafts in process memory.
type RedisConfig struct {
	Address  string        `mapstructure:"address" yaml:"address,omitempty"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db,omitempty"`
	DraftTTL time.Duration `mapstructure:"draftTTL" yaml:"draftTTL,omitempty"`
}

// DatabaseConfig locates the application database. An empty DSN keeps
// submitted applications in process memory.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver,omitempty"`
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as the key list AutomaticEnv consults.
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.version", "dev")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.draftTTL", time.Duration(constants.DefaultDraftTTLHours)*time.Hour)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		return &Configuration{}
	}
	return conf
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Catalog builds the loan type catalog. With no configured loan types the
// built-in catalog is used.
func (conf *Configuration) Catalog() (*catalog.Catalog, error) {
	if len(conf.LoanTypes) == 0 {
		return catalog.Default(), nil
	}
	c, err := catalog.New(conf.LoanTypes)
	if err != nil {
		return nil, fmt.Errorf("invalid loanTypes configuration: %w", err)
	}
	return c, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var loanTypes []validation.LoanTypeInfo
	for _, lt := range conf.LoanTypes {
		loanTypes = append(loanTypes, validation.LoanTypeInfo{
			ID:                  lt.ID,
			MaxDuration:         lt.MaxDuration,
			MonthlyInterestRate: lt.MonthlyInterestRate,
			RequiredDocuments:   len(lt.RequiredDocuments),
			EligibilityCriteria: len(lt.EligibilityCriteria),
		})
	}

	validator := validation.ConfigValidator{
		LoanTypes:     loanTypes,
		RedisAddress:  conf.Redis.Address,
		DatabaseDSN:   conf.Database.DSN,
		DraftTTLHours: conf.Redis.DraftTTL.Hours(),
	}
	return validator.ValidateAll()
}
