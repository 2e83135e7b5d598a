// Package config resolves cyclecap settings from defaults, a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	cycles "github.com/lucasjlepore/cycle-analyzer"
	"github.com/lucasjlepore/cycle-analyzer/logging"
)

// EnvPrefix prefixes every environment variable, e.g. CYCLECAP_INPUT_SKIP_ROWS.
const EnvPrefix = "CYCLECAP"

// Config is the complete cyclecap configuration.
type Config struct {
	Input   InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output  OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Chart   ChartConfig    `yaml:"chart" envconfig:"CHART"`
	Logging logging.Config `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes the cycling log to read.
type InputConfig struct {
	Path     string `yaml:"path" split_words:"true"`
	SkipRows int    `yaml:"skip_rows" split_words:"true" validate:"gte=0"`
	Lenient  bool   `yaml:"lenient" split_words:"true"`
}

// OutputConfig controls the exported artifacts.
type OutputConfig struct {
	Dir         string `yaml:"dir" split_words:"true"`
	Format      string `yaml:"format" split_words:"true" validate:"oneof=csv parquet xlsx sqlite json"`
	ChartFile   string `yaml:"chart_file" split_words:"true" validate:"required"`
	TableRows   int    `yaml:"table_rows" split_words:"true" validate:"gte=0"`
	Overwrite   bool   `yaml:"overwrite" split_words:"true"`
	Diagnostics bool   `yaml:"diagnostics" split_words:"true"`
}

// ChartConfig holds the chart texts.
type ChartConfig struct {
	XLabel string `yaml:"x_label" split_words:"true"`
	YLabel string `yaml:"y_label" split_words:"true"`
	Title  string `yaml:"title" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input: InputConfig{SkipRows: 74},
		Output: OutputConfig{
			Dir:       "cyclecap-out",
			Format:    "csv",
			ChartFile: "capacity.png",
			TableRows: 11,
		},
		Chart: ChartConfig{
			XLabel: "Cycle Number",
			YLabel: "Capacity (mA.h)",
			Title:  "Max Charge and Max Discharge Capacities for Cycle Number",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load layers defaults, the YAML file at path (if non-empty), a .env file in the working
// directory (if present) and CYCLECAP_* environment variables, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, configError("read .env", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, configError("read environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return configError("read config file "+path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return configError("parse config file "+path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return configError("validate", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return configError(strings.Join(msgs, "; "), nil)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
	case "required", "required_if":
		return fmt.Sprintf("%s is required", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
}

func configError(msg string, cause error) error {
	return cycles.NewError(cycles.KindConfig, msg, cause)
}
