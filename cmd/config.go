package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/shredder/internal/shared/constants"
)

const (
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Scan     ScanConfig
	Log      LogConfig
	NoColor  bool
	Quiet    bool
	Progress bool
}

// ScanConfig consolidates flag-driven settings for a scan.
type ScanConfig struct {
	Target      string
	Cookies     string
	Outfile     string        `validate:"required"`
	Concurrency int           `validate:"min=1"`
	Timeout     time.Duration `validate:"gt=0"`
	Deadline    time.Duration `validate:"gt=0"`
	RateLimit   int           `validate:"min=0"`
	Proxy       string        `validate:"omitempty,url"`
	UserAgent   string
	VerifyTLS   bool
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Verbose    bool
	Level      string `validate:"omitempty,oneof=debug info warn error"`
	File       string
	MaxSizeMB  int `validate:"min=1"`
	MaxBackups int `validate:"min=0"`
}

type defaultOverrides struct {
	Concurrency *int
	Timeout     *time.Duration
	Deadline    *time.Duration
	RateLimit   *int
	Outfile     string
	Proxy       string
	UserAgent   string
	VerifyTLS   *bool
	LogLevel    string
	LogFile     string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Scan: ScanConfig{
			Outfile:     consts.DefaultOutfile,
			Concurrency: consts.DefaultConcurrency,
			Timeout:     consts.DefaultProbeTimeout,
			Deadline:    consts.DefaultRunDeadline,
			RateLimit:   0,
			UserAgent:   defaultUserAgent(),
			VerifyTLS:   false,
		},
		Log: LogConfig{
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}

func defaultUserAgent() string {
	return "shredder/" + Version
}

func bindScanFlags(cmd *cobra.Command, cfg *CLIConfig) {
	flags := cmd.Flags()
	flags.StringVarP(&cfg.Scan.Target, "target", "t", "", "single target or file of newline separated targets (required)")
	flags.StringVarP(&cfg.Scan.Cookies, "cookies", "c", "", "cookies to send, in the form 'name1=value1; name2=value2'")
	flags.StringVarP(&cfg.Scan.Outfile, "outfile", "o", cfg.Scan.Outfile, "CSV file to write results to")
	flags.IntVar(&cfg.Scan.Concurrency, "concurrency", cfg.Scan.Concurrency, "maximum number of probes in flight")
	flags.DurationVar(&cfg.Scan.Timeout, "timeout", cfg.Scan.Timeout, "timeout for each probe")
	flags.DurationVar(&cfg.Scan.Deadline, "deadline", cfg.Scan.Deadline, "overall time to wait for all probes")
	flags.IntVar(&cfg.Scan.RateLimit, "rate-limit", cfg.Scan.RateLimit, "global requests per second (0 = unlimited)")
	flags.StringVar(&cfg.Scan.Proxy, "proxy", "", "proxy URL (http, https, socks5)")
	flags.StringVar(&cfg.Scan.UserAgent, "user-agent", cfg.Scan.UserAgent, "User-Agent header to send")
	flags.BoolVar(&cfg.Scan.VerifyTLS, "verify-tls", false, "validate TLS certificate chains")
	flags.BoolVar(&cfg.Progress, "progress", false, "show a live progress line on stderr")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "do not print the result table")
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.concurrency") {
		val := viper.GetInt("defaults.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("defaults.timeout") {
		val := viper.GetDuration("defaults.timeout")
		overrides.Timeout = &val
	}

	if viper.IsSet("defaults.deadline") {
		val := viper.GetDuration("defaults.deadline")
		overrides.Deadline = &val
	}

	if viper.IsSet("defaults.rate_limit") {
		val := viper.GetInt("defaults.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("defaults.verify_tls") {
		val := viper.GetBool("defaults.verify_tls")
		overrides.VerifyTLS = &val
	}

	overrides.Outfile = viper.GetString("defaults.outfile")
	overrides.Proxy = viper.GetString("defaults.proxy")
	overrides.UserAgent = viper.GetString("defaults.user_agent")
	overrides.LogLevel = viper.GetString("log.level")
	overrides.LogFile = viper.GetString("log.file")

	return overrides
}

// applyConfigDefaults merges config file and environment values into the
// runtime config when the user did not explicitly set the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()
	flags := cmd.Flags()

	if overrides.Concurrency != nil {
		applyIntDefault(flags, "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Scan.Concurrency = v
		})
	}

	if overrides.Timeout != nil {
		applyDurationDefault(flags, "timeout", *overrides.Timeout, func(v time.Duration) {
			cliConfig.Scan.Timeout = v
		})
	}

	if overrides.Deadline != nil {
		applyDurationDefault(flags, "deadline", *overrides.Deadline, func(v time.Duration) {
			cliConfig.Scan.Deadline = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(flags, "rate-limit", *overrides.RateLimit, func(v int) {
			cliConfig.Scan.RateLimit = v
		})
	}

	if overrides.VerifyTLS != nil {
		applyBoolDefault(flags, "verify-tls", *overrides.VerifyTLS, func(v bool) {
			cliConfig.Scan.VerifyTLS = v
		})
	}

	if overrides.Outfile != "" {
		setStringFlagIfUnset(flags, "outfile", overrides.Outfile)
	}
	if overrides.Proxy != "" {
		setStringFlagIfUnset(flags, "proxy", overrides.Proxy)
	}
	if overrides.UserAgent != "" {
		setStringFlagIfUnset(flags, "user-agent", overrides.UserAgent)
	}
	if overrides.LogFile != "" {
		setStringFlagIfUnset(flags, "log-file", overrides.LogFile)
	}
	if overrides.LogLevel != "" {
		cliConfig.Log.Level = overrides.LogLevel
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyDurationDefault(flags *pflag.FlagSet, name string, value time.Duration, setter func(time.Duration)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

var configValidator = validator.New()

// validateConfig rejects settings that would make the scan meaningless. It
// runs before any network activity.
func validateConfig(cfg *CLIConfig) error {
	if cfg == nil {
		return &ConfigError{Field: "config", Reason: "missing"}
	}

	var problems []error
	for _, section := range []any{cfg.Scan, cfg.Log} {
		err := configValidator.Struct(section)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, &ConfigError{
				Field:  fe.StructNamespace(),
				Reason: describeValidation(fe),
			})
		}
	}
	return errors.Join(problems...)
}

func describeValidation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
