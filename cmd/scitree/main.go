// Command scitree fits, inspects and applies decision trees and tree
// ensembles from the command line.
//
//	scitree fit -i train.csv -m adaboost-m1 --rounds 10 -o model.gob
//	scitree predict -f model.gob -i test.csv
//	scitree inspect -f model.gob
//	scitree plot -f model.gob -o curve.png
package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

type rootCmdConfig struct {
	configFile string
	logLevel   string
	logFormat  string
	v          *viper.Viper
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:          "scitree",
		Short:        "scitree grows decision trees and tree ensembles",
		Long:         `A tool to fit decision trees, bagged forests and AdaBoost ensembles on CSV or .npy data, inspect them and use them for predictions`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.init(cmd)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&config.configFile, "config", "", "YAML or JSON file with model settings (keys as printed by `scitree config`)")
	pf.StringVar(&config.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&config.logFormat, "log-format", "console", "console or json")
	rootCmd.AddCommand(
		versionCmd(),
		fitCmd(config),
		predictCmd(config),
		inspectCmd(config),
		plotCmd(config),
		configCmd(config),
	)
	return rootCmd
}

func (c *rootCmdConfig) init(cmd *cobra.Command) error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}
	switch c.logFormat {
	case "json":
		if err := log.SetupLogger(cmd.ErrOrStderr(), c.logLevel); err != nil {
			return err
		}
		log.SetProvider(log.SlogProvider{})
	case "console", "":
		log.SetProvider(log.NewZerologProvider(zerolog.ConsoleWriter{Out: zerolog.SyncWriter(cmd.ErrOrStderr()), NoColor: true}, level))
	default:
		return errors.NewValidationError("log-format", "must be console or json", c.logFormat)
	}

	c.v.SetEnvPrefix("SCITREE")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()
	setDefaults(c.v)
	if c.configFile != "" {
		c.v.SetConfigFile(c.configFile)
		if err := c.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading %s", c.configFile)
		}
	}
	return nil
}

// effectiveSettings binds the model flags of cmd and returns the merged configuration.
func (c *rootCmdConfig) effectiveSettings(cmd *cobra.Command) (settings, error) {
	if err := bindModelFlags(c.v, cmd); err != nil {
		return settings{}, err
	}
	return loadSettings(c.v)
}

func logger() log.Logger {
	return log.GetLoggerWithName("scitree")
}
