package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var configFile string

var RootCmd = &cobra.Command{
	Use:          RootCmdName,
	Short:        RootCmdShort,
	Long:         RootCmdLong,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configFile, configFlag, "", "config file (default conf/carlot.yaml when present)")
	flags.String(logLevel, "", "log level: debug, info, warn or error")
	flags.String(logFormat, "", "log format: json or text")

	RootCmd.AddCommand(ServeCmd, ConvertCmd, SeedCmd)
}

// flagKeys maps command line flags to configuration keys. Flags only
// override the configuration when they are set explicitly.
var flagKeys = map[string]string{
	logLevel:   "log.level",
	logFormat:  "log.format",
	addrFlag:   "server.address",
	driverFlag: "storage.driver",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if f.Changed {
			err = v.BindPFlag(key, f)
		}
	})
	return err
}

// loadConfig reads the configuration file, the environment and the flags
// of cmd, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, fmt.Errorf("bind flags: %w", err)
	}
	return config.Load(v)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	return logging.Init(logging.Config{Level: cfg.Level, Format: cfg.Format})
}
