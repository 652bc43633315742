package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/keepmind9/rinfobot/internal/bot"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the application command schema",
	Long:  "Print, as JSON, the application commands rinfobot registers with Discord on startup",
	Run: func(cmd *cobra.Command, args []string) {
		if err := printCommands(cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to marshal commands: %v\n", err)
		}
	},
}

func printCommands(w io.Writer) error {
	output, err := json.MarshalIndent(bot.Commands(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
