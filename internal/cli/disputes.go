package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"SettleKaro/internal/domain/dispute"
)

func runList(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("list", env)
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := positional(fs, args, 0); err != nil {
		return err
	}

	list, err := env.Workspace.Refresh(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(env.Out, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(env.Out, "no disputes")
		return nil
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tAMOUNT\tTITLE\tPARTIES")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s vs %s\n",
			d.ID, d.Status.Label(), d.Category, amountText(d.Amount), d.Title, d.Parties.Plaintiff, d.Parties.Defendant)
	}
	return tw.Flush()
}

func runShow(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("show", env)
	asJSON := fs.Bool("json", false, "print JSON")
	pos, err := positional(fs, args, 1)
	if err != nil {
		return err
	}

	d, err := env.Workspace.Get(ctx, pos[0])
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(env.Out, d)
	}

	fmt.Fprintf(env.Out, "%s  [%s]\n", d.Title, d.Status.Label())
	fmt.Fprintf(env.Out, "id:        %s\n", d.ID)
	fmt.Fprintf(env.Out, "category:  %s\n", d.Category)
	fmt.Fprintf(env.Out, "amount:    %s\n", amountText(d.Amount))
	fmt.Fprintf(env.Out, "parties:   %s vs %s\n", d.Parties.Plaintiff, d.Parties.Defendant)
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(env.Out, "created:   %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(env.Out, "\n%s\n", indent(d.Description, "  "))

	if len(d.Evidence) > 0 {
		fmt.Fprintln(env.Out, "\nevidence:")
		for _, e := range d.Evidence {
			fmt.Fprintf(env.Out, "  - %s\n", e.Name)
		}
	}
	if d.AIAnalysis != nil {
		fmt.Fprintf(env.Out, "\nanalysis:\n%s\n", indent(*d.AIAnalysis, "  "))
	}
	if len(d.SettlementSuggestions) > 0 {
		fmt.Fprintln(env.Out, "\nsuggestions:")
		for i, s := range d.SettlementSuggestions {
			fmt.Fprintf(env.Out, "  %d. %s\n", i+1, s)
		}
	}
	if next := dispute.AllowedTransitions(d.Status); len(next) > 0 {
		names := make([]string, 0, len(next))
		for _, s := range next {
			names = append(names, string(s))
		}
		fmt.Fprintf(env.Out, "\nnext: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func amountText(amount *float64) string {
	if amount == nil {
		return "N/A"
	}
	return "$" + strconv.FormatFloat(*amount, 'f', 2, 64)
}
