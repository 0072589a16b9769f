package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

const (
	// VersionMajor is the major number in scitree's version
	VersionMajor = 0
	// VersionMinor is the minor number in scitree's version
	VersionMinor = 1
	// VersionPatch is the patch number in scitree's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scitree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scitree v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}

func configCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective model settings as YAML",
		Long: `Print the settings fit would use after merging defaults, the --config file,
SCITREE_* environment variables (e.g. SCITREE_ENSEMBLE_N_TREES) and flags.
The output can be saved and passed back with --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootConfig.effectiveSettings(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(s)
			if err != nil {
				return errors.Wrap(err, "encoding settings")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	addModelFlags(cmd)
	return cmd
}
