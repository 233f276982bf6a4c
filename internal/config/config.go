// Package config loads wordstat settings from defaults, config files,
// the environment and command-line flags, in increasing precedence.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WORDSTAT_REPORT_FORMAT.
const EnvPrefix = "WORDSTAT"

// FileName is the base name searched for in each config directory.
const FileName = ".wordstat"

//go:embed default.yaml
var defaultTemplate string

// Template returns the commented default config written by `wordstat init`.
func Template() string { return defaultTemplate }

// Config is the full set of settings.
type Config struct {
	Report     ReportConfig     `mapstructure:"report"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Acquire    AcquireConfig    `mapstructure:"acquire"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Log        LogConfig        `mapstructure:"log"`
	App        AppConfig        `mapstructure:"app"`
}

// ReportConfig selects what is sampled and how it is printed.
type ReportConfig struct {
	Type   string `mapstructure:"type" jsonschema:"enum=func,enum=name"`
	Word   string `mapstructure:"word"`
	Locals bool   `mapstructure:"locals"`
	Format string `mapstructure:"format"`
	// TopSize stays textual so a non-numeric value can fall back to the default.
	TopSize string `mapstructure:"top_size"`
	Output  string `mapstructure:"output"`
}

// AnalysisConfig controls discovery and parsing.
type AnalysisConfig struct {
	Language         string   `mapstructure:"language" jsonschema:"enum=python,enum=go,enum=ruby"`
	Extensions       []string `mapstructure:"extensions"`
	Exclude          []string `mapstructure:"exclude"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	SkipDirs         bool     `mapstructure:"skip_dirs"`
	Workers          int      `mapstructure:"workers"`
	MaxFileSize      int64    `mapstructure:"max_file_size"`
}

// AcquireConfig controls cloning of remote locators.
type AcquireConfig struct {
	Dir   string `mapstructure:"dir"`
	Depth int    `mapstructure:"depth"`
}

// ClassifierConfig controls the part-of-speech classifier.
type ClassifierConfig struct {
	Lexicon      string `mapstructure:"lexicon"`
	CacheSize    int    `mapstructure:"cache_size"`
	StemFallback bool   `mapstructure:"stem_fallback"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level      string `mapstructure:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	JSON       bool   `mapstructure:"json"`
	Mode       string `mapstructure:"mode" jsonschema:"enum=console,enum=file,enum=both"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// AppConfig holds verbosity switches.
type AppConfig struct {
	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report.type", "func")
	v.SetDefault("report.word", "")
	v.SetDefault("report.locals", false)
	v.SetDefault("report.format", "console")
	v.SetDefault("report.top_size", "10")
	v.SetDefault("report.output", "")

	v.SetDefault("analysis.language", "python")
	v.SetDefault("analysis.extensions", []string{})
	v.SetDefault("analysis.exclude", []string{})
	v.SetDefault("analysis.respect_gitignore", false)
	v.SetDefault("analysis.skip_dirs", false)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.max_file_size", 0)

	v.SetDefault("acquire.dir", "")
	v.SetDefault("acquire.depth", 0)

	v.SetDefault("classifier.lexicon", "")
	v.SetDefault("classifier.cache_size", 4096)
	v.SetDefault("classifier.stem_fallback", false)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", filepath.Join(".wordstat", "wordstat.log"))
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetDefault("app.debug", false)
	v.SetDefault("app.verbose", false)
	v.SetDefault("app.quiet", false)
}

// New returns a viper instance with defaults and environment binding in
// place. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SearchPaths lists the directories searched for a config file.
func SearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wordstat"))
	}
	return paths
}

// findConfigFile returns the first existing config file in the search path.
func findConfigFile() string {
	for _, dir := range SearchPaths() {
		for _, ext := range []string{"yaml", "yml", "toml", "json"} {
			path := filepath.Join(dir, FileName+"."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load reads configPath (or the first file found on the search path) into v
// and decodes the merged settings. Finding no file at all is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
