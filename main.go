package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sol-eng/wbi/pkg/osinfo"
	"github.com/sol-eng/wbi/pkg/urls"
)

// https://goreleaser.com/cookbooks/using-main.version
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const envPrefix = "wbi"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(viper.GetViper()).ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "wbi",
		Short:         "Resolve Posit Connect and Package Manager installer URLs",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			level, err := log.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			if used := v.ConfigFileUsed(); used != "" {
				log.WithField("file", used).Debug("loaded config")
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", log.InfoLevel.String(), "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/wbi/config.yaml)")
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))

	rootCmd.AddCommand(urls.NewURLsCmd(v))
	rootCmd.AddCommand(osinfo.NewDetectCmd())
	return rootCmd
}

// initConfig layers WBI_* environment variables and an optional YAML config
// file under the flags bound to v. A missing default config file is not an error.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "wbi"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
