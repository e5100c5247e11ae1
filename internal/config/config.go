package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/internal/stages/verifier"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/pkg/solution"
	"github.com/spf13/viper"
)

const envPrefix = "TESTER"

// Configuration keys. They double as long flag names, config file keys and,
// upper-cased with the TESTER_ prefix, environment variable names.
const (
	keyCommand         = "command"
	keyFormat          = "format"
	keyDirectory       = "directory"
	keyCompareMode     = "compare-mode"
	keyDisplayMode     = "display-mode"
	keyTolerance       = "error"
	keyTimeLimit       = "tle"
	keyMemoryLimit     = "mle"
	keyJobs            = "jobs"
	keyJudgeCommand    = "judge-command"
	keyJudgeTimeLimit  = "judge-tle"
	keyGNUTime         = "gnu-time"
	keyPrintInput      = "print-input"
	keyPrintMemory     = "print-memory"
	keyIgnoreBackup    = "ignore-backup"
	keySilent          = "silent"
	keyReport          = "report"
	keyResultQueueURL  = "result-queue-url"
	keyResultQueueName = "result-queue-name"
	keyVerbose         = "verbose"
)

// Config is the read-only configuration of one test run.
type Config struct {
	Command      string
	NamePattern  string
	Directory    string
	TestPaths    []string
	CompareMode  verifier.CompareMode
	DisplayMode  string
	JudgeCommand string
	MemoryProbe  string
	Jobs         int

	// Zero leaves the special judge unbounded.
	JudgeTimeLimitSec float64

	// Nil means unset.
	FloatTolerance *float64
	TimeLimitSec   *float64
	MemoryLimitMB  *float64

	PrintInput   bool
	PrintMemory  bool
	IgnoreBackup bool
	Silent       bool
	Verbose      bool

	ReportPath      string
	ResultQueueURL  string
	ResultQueueName string
}

// Limits returns the resource limits of the run.
func (c *Config) Limits() solution.Limits {
	return solution.Limits{TimeLimitSec: c.TimeLimitSec, MemoryLimitMB: c.MemoryLimitMB}
}

// JudgeTimeLimit converts the special judge time limit; 0 means unbounded.
func (c *Config) JudgeTimeLimit() time.Duration {
	return time.Duration(c.JudgeTimeLimitSec * float64(time.Second))
}

// TimeLimit converts the time limit for the executor; 0 means unbounded.
func (c *Config) TimeLimit() time.Duration {
	if c.TimeLimitSec == nil {
		return 0
	}
	return time.Duration(*c.TimeLimitSec * float64(time.Second))
}

// NewConfig resolves the configuration from, in increasing priority: defaults,
// a config file, environment variables (.env included) and command line flags.
func NewConfig(args []string) (*Config, error) {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat .env file: %w", err)
		}
	} else {
		logger.Debug(".env file detected, loading it")
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaultValues(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debugf("Using config file %s", used)
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	applyPresets(fs, v)

	cfg := &Config{
		Command:           v.GetString(keyCommand),
		NamePattern:       v.GetString(keyFormat),
		Directory:         v.GetString(keyDirectory),
		TestPaths:         fs.Args(),
		DisplayMode:       v.GetString(keyDisplayMode),
		JudgeCommand:      v.GetString(keyJudgeCommand),
		JudgeTimeLimitSec: v.GetFloat64(keyJudgeTimeLimit),
		MemoryProbe:       v.GetString(keyGNUTime),
		Jobs:              v.GetInt(keyJobs),
		FloatTolerance:    optionalFloat(v, keyTolerance),
		TimeLimitSec:      optionalFloat(v, keyTimeLimit),
		MemoryLimitMB:     optionalFloat(v, keyMemoryLimit),
		PrintInput:        v.GetBool(keyPrintInput),
		PrintMemory:       v.GetBool(keyPrintMemory),
		IgnoreBackup:      v.GetBool(keyIgnoreBackup),
		Silent:            v.GetBool(keySilent),
		Verbose:           v.GetBool(keyVerbose),
		ReportPath:        v.GetString(keyReport),
		ResultQueueURL:    v.GetString(keyResultQueueURL),
		ResultQueueName:   v.GetString(keyResultQueueName),
	}

	cfg.CompareMode, err = verifier.ParseCompareMode(v.GetString(keyCompareMode))
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault(keyCommand, defaultCommand())
	v.SetDefault(keyFormat, constants.DefaultNamePattern)
	v.SetDefault(keyDirectory, constants.DefaultTestDirectory)
	v.SetDefault(keyCompareMode, constants.DefaultCompareMode)
	v.SetDefault(keyDisplayMode, constants.DefaultDisplayMode)
	v.SetDefault(keyJobs, constants.DefaultJobs)
	v.SetDefault(keyJudgeTimeLimit, constants.DefaultJudgeTimeLimitSec)
	v.SetDefault(keyGNUTime, defaultMemoryProbe())
	v.SetDefault(keyPrintInput, true)
	v.SetDefault(keyIgnoreBackup, true)
	v.SetDefault(keyResultQueueName, constants.DefaultResultQueueName)
}

// readConfigFile reads an explicitly given file, or tester.{yaml,toml,json} from
// the working directory when present.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(constants.DefaultConfigFileName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func optionalFloat(v *viper.Viper, key string) *float64 {
	if !v.IsSet(key) {
		return nil
	}
	f := v.GetFloat64(key)
	return &f
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Command) == "" {
		return pkgerrors.ErrEmptyCommand
	}
	if cfg.Jobs < 1 {
		return fmt.Errorf("%w: %d", pkgerrors.ErrInvalidJobs, cfg.Jobs)
	}
	switch cfg.DisplayMode {
	case constants.DisplayModeSummary, constants.DisplayModeAll,
		constants.DisplayModeDiff, constants.DisplayModeDiffAll:
	default:
		return fmt.Errorf("%w: %q", pkgerrors.ErrInvalidDisplayMode, cfg.DisplayMode)
	}
	for name, value := range map[string]*float64{
		keyTolerance:      cfg.FloatTolerance,
		keyTimeLimit:      cfg.TimeLimitSec,
		keyMemoryLimit:    cfg.MemoryLimitMB,
		keyJudgeTimeLimit: &cfg.JudgeTimeLimitSec,
	} {
		if value != nil && *value < 0 {
			return fmt.Errorf("--%s must not be negative, got %v", name, *value)
		}
	}
	return nil
}

func defaultCommand() string {
	if runtime.GOOS == "windows" {
		return constants.DefaultWindowsCommand
	}
	return constants.DefaultCommand
}

func defaultMemoryProbe() string {
	switch runtime.GOOS {
	case "windows":
		return ""
	case "darwin":
		return constants.DefaultDarwinProbe
	default:
		return constants.DefaultMemoryProbe
	}
}
