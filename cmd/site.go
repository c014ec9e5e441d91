package cmd

import (
	"fmt"
	"os"

	"github.com/rogersnm/fieldwork/internal/sitelink"
	"github.com/spf13/cobra"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage directory-local server links",
}

var siteLinkCmd = &cobra.Command{
	Use:   "link <origin>",
	Short: "Link the current directory to a server origin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		l, err := sitelink.Write(cwd, args[0])
		if err != nil {
			return configError("%w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s\n", sitelink.FileName, l.Origin)
		return nil
	},
}

var siteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the directory-local server link",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		l, err := sitelink.Find(cwd)
		if err != nil {
			return configError("%w", err)
		}
		if l == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No server linked. Run: fieldwork site link <origin>")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (from %s)\n", l.Origin, l.Path())
		return nil
	},
}

var siteUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the directory-local server link",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		removed, err := sitelink.Remove(cwd)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), "No server linked.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unlinked server.")
		return nil
	},
}

func init() {
	siteCmd.AddCommand(siteLinkCmd)
	siteCmd.AddCommand(siteShowCmd)
	siteCmd.AddCommand(siteUnlinkCmd)
	rootCmd.AddCommand(siteCmd)
}
