package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/fieldwork/internal/config"
	"github.com/rogersnm/fieldwork/internal/markdown"
	"github.com/rogersnm/fieldwork/internal/status"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the server connection and status change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		eff := cfg.WithEnv(lookupEnv)

		origin, source, err := resolveOrigin()
		if err != nil {
			origin, source = "(not set)", ""
		}
		if source != "" {
			origin += " (from " + source + ")"
		}
		user := eff.Username
		if user == "" {
			user = "(not set)"
		}
		password := "(not set)"
		if v, ok := lookupEnv(config.PasswordEnv); ok && v != "" {
			password = "(from " + config.PasswordEnv + ")"
		}
		settle, err := cfg.Settle(status.DefaultSettleDelay)
		if err != nil {
			return configError("%w", err)
		}
		domain := cfg.DefaultDomain
		if domain == "" {
			domain = status.DomainWorkOrder
		}
		history := cfg.HistoryCollection
		if history == "" {
			history = status.DefaultHistoryCollection
		}
		markers := "(defaults)"
		if len(cfg.RejectionMarkers) > 0 {
			markers = strings.Join(cfg.RejectionMarkers, ", ")
		}

		fields := []string{
			markdown.RenderField("Data", dataDir),
			markdown.RenderField("Origin", origin),
			markdown.RenderField("User", user),
			markdown.RenderField("Password", password),
			markdown.RenderField("Settle delay", settle.String()),
			markdown.RenderField("Status domain", domain),
			markdown.RenderField("History collection", history),
			markdown.RenderField("Rejection markers", markers),
		}
		for _, t := range cfg.Typos {
			fields = append(fields, markdown.RenderField("Typo", t.From+" -> "+t.To))
		}
		if cfg.LogLevel != "" {
			fields = append(fields, markdown.RenderField("Log level", cfg.LogLevel))
		}
		fmt.Fprint(out, markdown.RenderEntityHeader("fieldwork "+version, fields))
		return nil
	},
}

var configSetOriginCmd = &cobra.Command{
	Use:   "set-origin <url>",
	Short: "Set the server origin (scheme, host and base path)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAndSave(cmd, "origin", args[0])
	},
}

var configSetUserCmd = &cobra.Command{
	Use:   "set-user <name>",
	Short: "Set the default username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAndSave(cmd, "username", args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config key (" + strings.Join(config.Keys(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAndSave(cmd, args[0], args[1])
	},
}

func setAndSave(cmd *cobra.Command, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return configError("%w", err)
	}
	if err := config.Save(dataDir, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetOriginCmd)
	configCmd.AddCommand(configSetUserCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
