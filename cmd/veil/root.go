package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "veil",
		Short: "Mask sensitive values",
		Long: `veil applies the desensitization maskers used by view rendering.

Custom partial maskers can be declared in a config file:

  maskers:
    - name: account
      prefix: 2
      suffix: 2`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: $HOME/.veil.yaml)")

	root.AddCommand(newMaskCmd(a))
	root.AddCommand(newMaskersCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// initConfig reads the config file and environment. A missing default
// config file is not an error.
func (a *app) initConfig() error {
	a.v.SetEnvPrefix("VEIL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return wrap(ErrGetHomeDir, err)
		}
		a.v.SetConfigFile(filepath.Join(home, ".veil.yaml"))
	}

	if err := a.v.ReadInConfig(); err != nil {
		if a.cfgFile != "" || !errors.Is(err, os.ErrNotExist) {
			return wrap(ErrReadConfig, err)
		}
	}

	cfg, err := decodeConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
