package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

var cfgFile string

// AppContext carries what every command needs after PersistentPreRunE.
type AppContext struct {
	Logger *zap.SugaredLogger
	Config *CLIConfig
	close  func()
}

type appContextKey struct{}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:   "shredder -t TARGET [flags]",
	Short: "Parse the security headers of one or more web targets",
	Long: `shredder sends one GET request to every target and records which of the
following response headers are present:

  X-XSS-Protection, X-Frame-Options, Content-Security-Policy,
  X-Content-Type-Options, Referrer-Policy, Feature-Policy

TARGET is a single URL or host, or a file of newline separated targets.
Targets without a scheme are probed over https. Certificate validation is
disabled unless --verify-tls is given. Targets that cannot be reached are
left out of the CSV report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		applyConfigDefaults(cmd)

		if cliConfig.NoColor {
			color.NoColor = true
		}

		logger, closeLog, err := newLogger(cliConfig.Log, os.Stderr)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		storeAppContext(cmd, &AppContext{
			Logger: logger,
			Config: cliConfig,
			close:  closeLog,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx != nil && appCtx.close != nil {
			appCtx.close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config

		if strings.TrimSpace(cfg.Scan.Target) == "" {
			return errs.ErrMissingTarget
		}
		if err := validateConfig(cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err := runScan(ctx, cfg, appCtx.Logger, cmd.OutOrStdout())
		return err
	},
}

// exit is swapped out in tests.
var exit = os.Exit

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorError("Error:"), err)
		if errors.Is(err, errs.ErrMissingTarget) {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Usage()
		}
		exit(1)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".shredder")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("shredder")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config is fine; an explicit --config must load.
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if ctx := cmd.Context(); ctx != nil {
		if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shredder.yaml)")
	rootCmd.PersistentFlags().BoolVar(&cliConfig.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&cliConfig.Log.Verbose, "verbose", "v", false, "debug logging, one line per failed probe")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Log.File, "log-file", "", "also write JSON logs to this file (rotated)")

	bindScanFlags(rootCmd, cliConfig)

	rootCmd.AddCommand(versionCmd)
}
