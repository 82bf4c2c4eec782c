package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/erp/sepawriter/internal/domain/sepa"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the generator configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	Output     OutputConfig
	Schema     SchemaConfig
	Validation ValidationConfig
	Text       TextConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// OutputConfig controls how generated documents are written
type OutputConfig struct {
	Indent    int  // spaces per nesting level, 0 writes the document on one line
	Overwrite bool // replace an existing output file
}

// SchemaConfig holds the message versions used when a batch does not name one
type SchemaConfig struct {
	Credit string // pain.001.001.03 or pain.001.001.04
	Debit  string // pain.008.001.02 or pain.008.001.03
}

// ValidationConfig controls schema validation of generated documents
type ValidationConfig struct {
	Enabled bool
	Strict  bool // refuse to write a document with validation issues
}

// TextConfig controls the clean up of free text before it is written
type TextConfig struct {
	Transliterate bool // strip diacritics
	Clean         bool // upper case and restrict to the SEPA character set
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"log-output":    "log.output",
	"indent":        "output.indent",
	"overwrite":     "output.overwrite",
	"validate":      "validation.enabled",
	"strict":        "validation.strict",
	"transliterate": "text.transliterate",
	"clean":         "text.clean",
}

// RegisterFlags declares the flags that override configuration keys
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (console, json)")
	fs.String("log-output", "", "log output (stdout, stderr or a file path)")
	fs.Int("indent", 0, "indent the generated XML by this many spaces")
	fs.Bool("overwrite", false, "overwrite an existing output file")
	fs.Bool("validate", true, "validate the generated document")
	fs.Bool("strict", false, "do not write a document that fails validation")
	fs.Bool("transliterate", false, "strip diacritics from free text")
	fs.Bool("clean", false, "restrict free text to the SEPA character set")
}

// Load loads configuration from a YAML file, environment variables and flags.
// Priority (highest to lowest):
// 1. Flags that were set on the command line
// 2. Environment variables with SEPAGEN_ prefix (e.g., SEPAGEN_LOG_LEVEL)
// 3. The configuration file (configFile, or sepagen.yaml in the working directory)
// 4. Built-in defaults
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("validation.enabled", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sepagen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SEPAGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Output: OutputConfig{
			Indent:    v.GetInt("output.indent"),
			Overwrite: v.GetBool("output.overwrite"),
		},
		Schema: SchemaConfig{
			Credit: v.GetString("schema.credit"),
			Debit:  v.GetString("schema.debit"),
		},
		Validation: ValidationConfig{
			Enabled: v.GetBool("validation.enabled"),
			Strict:  v.GetBool("validation.strict"),
		},
		Text: TextConfig{
			Transliterate: v.GetBool("text.transliterate"),
			Clean:         v.GetBool("text.clean"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sepagen"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Schema.Credit == "" {
		cfg.Schema.Credit = sepa.SchemaPain00100103.String()
	}
	if cfg.Schema.Debit == "" {
		cfg.Schema.Debit = sepa.SchemaPain00800102.String()
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if !slices.Contains([]string{"console", "json"}, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("output.indent must be between 0 and 8, got %d", c.Output.Indent)
	}
	if _, err := c.Schema.CreditSchema(); err != nil {
		return err
	}
	if _, err := c.Schema.DebitSchema(); err != nil {
		return err
	}
	if c.Validation.Strict && !c.Validation.Enabled {
		return fmt.Errorf("validation.strict requires validation.enabled")
	}
	return nil
}

// CreditSchema parses the default credit transfer schema
func (s SchemaConfig) CreditSchema() (sepa.Schema, error) {
	schema, err := sepa.SchemaFromString(s.Credit)
	if err != nil || !schema.IsCreditTransfer() {
		return 0, fmt.Errorf("schema.credit must be one of %s, got %q", schemaNames(sepa.CreditTransferSchemas), s.Credit)
	}
	return schema, nil
}

// DebitSchema parses the default direct debit schema
func (s SchemaConfig) DebitSchema() (sepa.Schema, error) {
	schema, err := sepa.SchemaFromString(s.Debit)
	if err != nil || !schema.IsDirectDebit() {
		return 0, fmt.Errorf("schema.debit must be one of %s, got %q", schemaNames(sepa.DebitTransferSchemas), s.Debit)
	}
	return schema, nil
}

func schemaNames(schemas []sepa.Schema) string {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
