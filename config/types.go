package config

type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Morph    MorphConfig    `mapstructure:"morph"`
	Export   ExportConfig   `mapstructure:"export"`
	Fit      FitConfig      `mapstructure:"fit"`
	Sanitize SanitizeConfig `mapstructure:"sanitize"`
}

type LoaderConfig struct {
	AllowApostrophes bool `mapstructure:"allow_apostrophes"`
}

type MorphConfig struct {
	Stemmer   string `mapstructure:"stemmer"`
	Language  string `mapstructure:"language"`
	LemmaDict string `mapstructure:"lemma_dict"`
}

type ExportConfig struct {
	CountOrder string `mapstructure:"count_order"`
}

type FitConfig struct {
	Output        string  `mapstructure:"output"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Width         float64 `mapstructure:"width"`
	Height        float64 `mapstructure:"height"`
}

type SanitizeConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}
