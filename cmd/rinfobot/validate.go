package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/keepmind9/rinfobot/internal/core"
	"github.com/spf13/cobra"
)

var (
	validateConfig string
	validateJSON   bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Config         string   `json:"config"`
	Workers        int      `json:"workers,omitempty"`
	QueueSize      int      `json:"queue_size,omitempty"`
	HandlerTimeout string   `json:"handler_timeout,omitempty"`
	Metrics        string   `json:"metrics,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rinfobot configuration",
	Long: `Validate the rinfobot configuration without connecting to Discord.

This command checks:
  - YAML syntax and ${VAR} expansion
  - Presence of the bot token
  - Dispatcher and logging settings

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	Run: func(cmd *cobra.Command, args []string) {
		allowMissing := !cmd.Flags().Changed("config")
		result := validate(validateConfig, allowMissing)
		outputValidationResult(cmd.OutOrStdout(), result, validateJSON)
		if !result.Valid {
			os.Exit(1)
		}
	},
}

func validate(configFile string, allowMissing bool) ValidationResult {
	cfg, err := core.LoadConfig(configFile, allowMissing)
	if err != nil {
		return ValidationResult{
			Valid:  false,
			Config: configFile,
			Errors: []string{err.Error()},
		}
	}

	return ValidationResult{
		Valid:          true,
		Config:         configFile,
		Workers:        cfg.Dispatcher.Workers,
		QueueSize:      cfg.Dispatcher.QueueSize,
		HandlerTimeout: cfg.Dispatcher.HandlerTimeout,
		Metrics:        cfg.Metrics.Listen,
		Warnings:       validateConfigDetails(cfg),
	}
}

func outputValidationResult(w io.Writer, result ValidationResult, jsonFormat bool) {
	if jsonFormat {
		output, err := json.Marshal(result)
		if err != nil {
			fmt.Fprintf(w, "{\"error\": \"failed to marshal json: %v\"}\n", err)
			return
		}
		fmt.Fprintln(w, string(output))
		return
	}

	if !result.Valid {
		fmt.Fprintln(w, "❌ Configuration validation failed:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", errMsg)
		}
		return
	}

	fmt.Fprintln(w, "✓ Configuration is valid")
	fmt.Fprintf(w, "  - Config: %s\n", result.Config)
	fmt.Fprintf(w, "  - Workers: %d (queue %d, timeout %s)\n", result.Workers, result.QueueSize, result.HandlerTimeout)
	if result.Metrics != "" {
		fmt.Fprintf(w, "  - Metrics: %s\n", result.Metrics)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\n⚠️  Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}

func validateConfigDetails(cfg *core.Config) []string {
	var warnings []string

	if !cfg.Discord.ShouldRegisterCommands() {
		warnings = append(warnings, "Command registration is disabled - /rinfo must already be registered")
	}
	if cfg.Discord.GuildID == "" && cfg.Discord.ShouldRegisterCommands() {
		warnings = append(warnings, "Commands are registered globally - propagation can take up to an hour")
	}
	if cfg.Logging.File == "" && !cfg.Logging.StdoutEnabled() {
		warnings = append(warnings, "Logging has no output - set logging.file or enable_stdout")
	}

	return warnings
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "config.yaml", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
