package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cristivlas/shmy-sub000/core/config"
)

var (
	cfgPath string

	commandText string
	keepRunning bool

	// exitCode is set by the shell's exit command.
	exitCode int
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shmy"
	}
	return filepath.Join(home, ".shmy")
}

// loadConfig reads the configuration, falling back to the built-in one when
// the directory hasn't been initialized.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(cfgPath), nil
	}
	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shmy [-c COMMAND] [SCRIPT [ARG...]]",
	Short: "Interactive command shell",
	Long: `An interactive shell with an expression language, built-in
commands and job control.

Without arguments the shell reads commands from the terminal. A SCRIPT is
run with its arguments bound to $1, $2 and so on.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := newSession(cmd, configuration)
		if err != nil {
			return err
		}
		defer sh.Close()

		exitCode, err = sh.Run(commandText, keepRunning, args)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")

	rootCmd.Flags().StringVarP(&commandText, "command", "c", "", "run COMMAND and exit")
	rootCmd.Flags().BoolVarP(&keepRunning, "keep", "k", false, "stay interactive after running -c")
	// Script arguments belong to the script.
	rootCmd.Flags().SetInterspersed(false)

	log.SetFlags(0)
	log.SetPrefix("shmy: ")
}
