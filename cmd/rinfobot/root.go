package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// envFile is loaded before every command so DISCORD_TOKEN can live in .env
const envFile = ".env"

var rootCmd = &cobra.Command{
	Use:   "rinfobot",
	Short: "rinfobot is a Discord bot that summarizes message reactions",
	Long: `rinfobot connects to the Discord gateway and answers a small set of commands:

  !ping             replies with Pong!
  /rinfo            lists who reacted to a message, grouped by emoji
  Reaction Info     message context-menu command

The bot token is read from the config file or the DISCORD_TOKEN environment
variable; a .env file in the working directory is loaded first.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is not an error
		_ = godotenv.Load(envFile)
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(versionCmd)
}
