package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/fieldwork/internal/editor"
	"github.com/rogersnm/fieldwork/internal/markdown"
	"github.com/rogersnm/fieldwork/internal/maximo"
	"github.com/rogersnm/fieldwork/internal/model"
	"github.com/rogersnm/fieldwork/internal/status"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List and change work order statuses",
}

var statusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the valid statuses of a domain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		href, _ := cmd.Flags().GetString("href")
		current, _ := cmd.Flags().GetString("current")
		if href != "" && current != "" {
			return configError("--href and --current are mutually exclusive")
		}

		client, creds, err := session()
		if err != nil {
			return err
		}
		opts, read, err := listWithCurrent(cmd.Context(), client, creds, statusDomain(cmd), href)
		if err != nil {
			return err
		}
		if current == "" {
			current = read
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderStatusTable(opts, current))
		return nil
	},
}

var statusChangeCmd = &cobra.Command{
	Use:   "change [href] [value]",
	Short: "Change the status of a work order and confirm what the server stored",
	Long: `Change the status of a work order and confirm what the server stored.

The new status is written in place; if that fails for a reason other than a
business rule, a row is added to the status history instead. The status is
then read back after a short settling delay and compared with the request.

The memo is taken from --memo or stdin. With --file the href, status and memo
come from a change request file (YAML frontmatter with href and status, the
memo as the body). On a terminal, omitting the value opens a picker.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, creds, err := session()
		if err != nil {
			return err
		}
		req, err := changeRequest(ctx, cmd, args, client, creds)
		if err != nil {
			return err
		}

		settle, err := cfg.Settle(status.DefaultSettleDelay)
		if err != nil {
			return configError("%w", err)
		}
		if cmd.Flags().Changed("settle") {
			settle, _ = cmd.Flags().GetDuration("settle")
		}
		changer := status.NewChanger(client,
			status.WithSettleDelay(settle),
			status.WithHistoryCollection(cfg.HistoryCollection),
			status.WithClassifier(classifier()),
			status.WithLogger(logger),
		)

		res, err := changer.Change(ctx, creds, req)
		if err != nil {
			var se *status.Error
			if errors.As(err, &se) && se.LastKnown != "" {
				fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderField("Stored status", markdown.RenderStatus(se.LastKnown)))
			}
			return err
		}
		trace, _ := cmd.Flags().GetBool("trace")
		fmt.Fprint(cmd.OutOrStdout(), markdown.RenderChangeResult(res, trace || verbose))
		return nil
	},
}

func statusDomain(cmd *cobra.Command) string {
	if d, _ := cmd.Flags().GetString("domain"); d != "" {
		return d
	}
	if cfg.DefaultDomain != "" {
		return cfg.DefaultDomain
	}
	return status.DomainWorkOrder
}

// listWithCurrent lists the domain and, when href is set, reads the current
// status of href at the same time.
func listWithCurrent(ctx context.Context, client *maximo.Client, creds maximo.Credentials, domain, href string) ([]model.StatusOption, string, error) {
	lister := status.NewLister(client, classifier(), logger)
	if href == "" {
		opts, err := lister.List(ctx, creds, domain)
		return opts, "", err
	}

	var (
		opts    []model.StatusOption
		current string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opts, err = lister.List(gctx, creds, domain)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = client.ReadStatus(gctx, creds, href)
		if err != nil {
			return fmt.Errorf("reading current status: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return opts, current, nil
}

// changeRequest assembles the request from a file, the arguments, the
// picker and the editor, in that order.
func changeRequest(ctx context.Context, cmd *cobra.Command, args []string, client *maximo.Client, creds maximo.Credentials) (model.ChangeRequest, error) {
	var req model.ChangeRequest
	file, _ := cmd.Flags().GetString("file")
	memo, _ := cmd.Flags().GetString("memo")

	if file != "" {
		if len(args) > 0 {
			return req, configError("--file cannot be combined with href or value arguments")
		}
		f, err := os.Open(file)
		if err != nil {
			return req, fmt.Errorf("opening change request: %w", err)
		}
		defer f.Close()
		if req, err = markdown.ParseChangeRequest(f); err != nil {
			return req, err
		}
	} else {
		if len(args) > 0 {
			req.Href = args[0]
		}
		if len(args) > 1 {
			req.Status = args[1]
		}
		req.Memo = strings.TrimSpace(readStdin())
	}
	if memo != "" {
		req.Memo = memo
	}

	if req.Href != "" && req.Status == "" && interactive() {
		value, err := pickStatus(ctx, client, creds, statusDomain(cmd), req.Href)
		if err != nil {
			return req, err
		}
		req.Status = value
	}

	if edit, _ := cmd.Flags().GetBool("edit"); edit {
		content, err := markdown.MarshalChangeRequest(req)
		if err != nil {
			return req, err
		}
		edited, err := editor.Edit(content, "fieldwork-change-*.md")
		if err != nil {
			return req, err
		}
		if req, err = markdown.ParseChangeRequest(strings.NewReader(string(edited))); err != nil {
			return req, err
		}
	}
	return req, nil
}

func pickStatus(ctx context.Context, client *maximo.Client, creds maximo.Credentials, domain, href string) (string, error) {
	opts, current, err := listWithCurrent(ctx, client, creds, domain, href)
	if err != nil {
		return "", err
	}
	if len(opts) == 0 {
		return "", fmt.Errorf("domain %s has no statuses", domain)
	}

	var value string
	choices := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		label := fmt.Sprintf("%-10s %s", o.Value, o.Label)
		if o.IsCurrent(current) {
			label += " (current)"
			value = o.Value
		}
		choices[i] = huh.NewOption(label, o.Value)
	}
	if err := huh.NewSelect[string]().
		Title("New status").
		Options(choices...).
		Value(&value).
		Run(); err != nil {
		return "", fmt.Errorf("selection cancelled")
	}
	return value, nil
}

func init() {
	statusListCmd.Flags().String("domain", "", "status domain (default from config, else "+status.DomainWorkOrder+")")
	statusListCmd.Flags().String("href", "", "work order whose current status is marked")
	statusListCmd.Flags().String("current", "", "status to mark as current")

	f := statusChangeCmd.Flags()
	f.String("memo", "", "memo recorded with the change")
	f.String("file", "", "read href, status and memo from a change request file")
	f.Bool("edit", false, "edit the change request in $EDITOR before sending")
	f.Duration("settle", time.Duration(0), "wait before reading the status back (default from config, else 1.5s)")
	f.String("domain", "", "status domain used by the picker")
	f.Bool("trace", false, "print the protocol states visited")

	statusCmd.AddCommand(statusListCmd)
	statusCmd.AddCommand(statusChangeCmd)
	rootCmd.AddCommand(statusCmd)
}
