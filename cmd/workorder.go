package cmd

import (
	"fmt"

	"github.com/rogersnm/fieldwork/internal/markdown"
	"github.com/spf13/cobra"
)

var workorderCmd = &cobra.Command{
	Use:     "workorder",
	Aliases: []string{"wo"},
	Short:   "Inspect work orders",
}

var workorderShowCmd = &cobra.Command{
	Use:   "show <href>",
	Short: "Show a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")
		client, creds, err := session()
		if err != nil {
			return err
		}
		wo, err := client.GetWorkOrder(cmd.Context(), creds, args[0])
		if err != nil {
			return err
		}
		out, err := markdown.RenderWorkOrder(wo, pretty)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var doclinkCmd = &cobra.Command{
	Use:   "doclink",
	Short: "Inspect work order attachments",
}

var doclinkListCmd = &cobra.Command{
	Use:   "list <href>",
	Short: "List the attachments of a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, creds, err := session()
		if err != nil {
			return err
		}
		links, err := client.ListDocLinks(cmd.Context(), creds, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderDocLinkTable(links))
		return nil
	},
}

func init() {
	workorderShowCmd.Flags().Bool("pretty", false, "render the long description as markdown")
	workorderCmd.AddCommand(workorderShowCmd)
	rootCmd.AddCommand(workorderCmd)

	doclinkCmd.AddCommand(doclinkListCmd)
	rootCmd.AddCommand(doclinkCmd)
}
