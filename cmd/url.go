package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/fieldwork/internal/id"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Repair hrefs returned by the server",
}

var urlNormalizeCmd = &cobra.Command{
	Use:   "normalize <href>...",
	Short: "Print the canonical absolute form of each href",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decode, _ := cmd.Flags().GetBool("decode")
		n, err := newNormalizer()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, raw := range args {
			u := n.Normalize(raw)
			fmt.Fprintln(out, u)
			if !decode {
				continue
			}
			tok := id.Find(u)
			if tok == "" {
				continue
			}
			parts, err := id.Split(tok)
			if err != nil {
				fmt.Fprintf(out, "  %s: %v\n", tok, err)
				continue
			}
			fmt.Fprintf(out, "  %s = %s\n", tok, strings.Join(parts, " / "))
		}
		return nil
	},
}

func init() {
	urlNormalizeCmd.Flags().Bool("decode", false, "also decode the resource token of each href")
	urlCmd.AddCommand(urlNormalizeCmd)
	rootCmd.AddCommand(urlCmd)
}
