package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristivlas/shmy-sub000/commands"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range commands.ListBuiltinCommands() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", strings.Join(b.Names, ", "), b.New().Short)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
