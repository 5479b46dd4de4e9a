package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "WORDFREQ"

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":         "log_level",
	"allow-apostrophes": "loader.allow_apostrophes",
	"stemmer":           "morph.stemmer",
	"lemma-dict":        "morph.lemma_dict",
	"count-order":       "export.count_order",
	"fit-output":        "fit.output",
}

// LoadConfig reads filename (yaml) on top of the defaults, then applies WORDFREQ_* env vars
// and any flags set on flags. A missing file is not an error.
func LoadConfig(filename string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("cannot bind flag %s %w", name, err)
				}
			}
		}
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			v.SetConfigFile(filename)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("cannot read the file %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot read the file %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error reading the config file %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Morph.Stemmer) {
	case "porter", "snowball":
	default:
		return fmt.Errorf("unknown stemmer %q: use porter or snowball", c.Morph.Stemmer)
	}
	switch strings.ToLower(c.Export.CountOrder) {
	case "asc", "desc":
	default:
		return fmt.Errorf("unknown count order %q: use asc or desc", c.Export.CountOrder)
	}
	if c.Fit.MaxIterations <= 0 {
		return fmt.Errorf("fit max_iterations must be a natural number")
	}
	if c.Fit.Width <= 0 || c.Fit.Height <= 0 {
		return fmt.Errorf("fit width and height must be positive")
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Morph: MorphConfig{
			Stemmer:  "porter",
			Language: "english",
		},
		Export: ExportConfig{
			CountOrder: "desc",
		},
		Fit: FitConfig{
			Output:        "zipf_law_fit.png",
			MaxIterations: 400,
			Width:         6.4,
			Height:        4.8,
		},
		Sanitize: SanitizeConfig{
			Input:  "data/novels",
			Output: "processed_data/novels",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("loader.allow_apostrophes", d.Loader.AllowApostrophes)
	v.SetDefault("morph.stemmer", d.Morph.Stemmer)
	v.SetDefault("morph.language", d.Morph.Language)
	v.SetDefault("morph.lemma_dict", d.Morph.LemmaDict)
	v.SetDefault("export.count_order", d.Export.CountOrder)
	v.SetDefault("fit.output", d.Fit.Output)
	v.SetDefault("fit.max_iterations", d.Fit.MaxIterations)
	v.SetDefault("fit.width", d.Fit.Width)
	v.SetDefault("fit.height", d.Fit.Height)
	v.SetDefault("sanitize.input", d.Sanitize.Input)
	v.SetDefault("sanitize.output", d.Sanitize.Output)
}
