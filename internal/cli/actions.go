package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/pkg/health"
)

// errUnhealthy makes health exit non-zero after printing the report.
var errUnhealthy = errors.New("backend unhealthy")

func runSubmit(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("submit", env)
	file := fs.String("f", "", "YAML draft file")
	title := fs.String("title", "", "dispute title")
	description := fs.String("description", "", "dispute description")
	category := fs.String("category", string(dispute.CategoryContract), "contract|payment|property|employment|other")
	amount := fs.String("amount", "", "amount in dispute")
	plaintiff := fs.String("plaintiff", "", "plaintiff name")
	defendant := fs.String("defendant", "", "defendant name")
	var evidence []string
	fs.Func("evidence", "evidence file, repeatable", func(v string) error {
		evidence = append(evidence, v)
		return nil
	})
	if _, err := positional(fs, args, 0); err != nil {
		return err
	}

	var draft *dispute.Draft
	if *file != "" {
		d, err := dispute.LoadDraft(*file)
		if err != nil {
			return err
		}
		draft = d
	} else {
		draft = dispute.NewDraft()
		draft.Title = *title
		draft.Description = *description
		draft.Parties = dispute.Parties{Plaintiff: *plaintiff, Defendant: *defendant}
		c, err := dispute.NewCategory(*category)
		if err != nil {
			return err
		}
		draft.Category = c
		if *amount != "" {
			v, err := strconv.ParseFloat(*amount, 64)
			if err != nil || v < 0 {
				return &dispute.ValidationError{Field: "amount", Reason: "must be a non-negative number"}
			}
			draft.Amount = &v
		}
	}
	for _, path := range evidence {
		if err := draft.AddEvidencePath(path); err != nil {
			return err
		}
	}

	id, err := env.Workspace.Submit(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "submitted %s\n", id)
	return nil
}

func runStatus(ctx context.Context, env Env, args []string) error {
	pos, err := positional(newFlagSet("status", env), args, 2)
	if err != nil {
		return err
	}
	status, err := dispute.NewStatus(pos[1])
	if err != nil {
		return err
	}
	if err := loaded(ctx, env); err != nil {
		return err
	}
	if err := env.Workspace.SetStatus(ctx, pos[0], status); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "%s is %s\n", pos[0], status.Label())
	return nil
}

func runResolve(ctx context.Context, env Env, args []string) error {
	pos, err := positional(newFlagSet("resolve", env), args, 1)
	if err != nil {
		return err
	}
	return runStatus(ctx, env, []string{pos[0], string(dispute.StatusResolved)})
}

func runMediate(ctx context.Context, env Env, args []string) error {
	pos, err := positional(newFlagSet("mediate", env), args, 1)
	if err != nil {
		return err
	}
	if err := selectDispute(ctx, env, pos[0]); err != nil {
		return err
	}
	if err := env.Workspace.Mediate(ctx); err != nil {
		return err
	}

	sel, _ := env.Workspace.Store.Selected()
	if sel.AIAnalysis != nil {
		fmt.Fprintf(env.Out, "analysis:\n%s\n", indent(*sel.AIAnalysis, "  "))
	}
	fmt.Fprintln(env.Out, "suggestions:")
	for i, s := range sel.SettlementSuggestions {
		fmt.Fprintf(env.Out, "  %d. %s\n", i+1, s)
	}
	return nil
}

func runChat(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("chat", env)
	message := fs.String("m", "", "send one message and print the log")
	history := fs.Bool("history", false, "load earlier turns first")
	pos, err := positional(fs, args, 1)
	if err != nil {
		return err
	}
	if err := selectDispute(ctx, env, pos[0]); err != nil {
		return err
	}
	if *history {
		if err := env.Workspace.Chat.LoadHistory(ctx); err != nil {
			return err
		}
	}

	if *message == "" {
		if env.Interactive == nil {
			return fmt.Errorf("%w: -m is required without a terminal", ErrUsage)
		}
		sel, _ := env.Workspace.Store.Selected()
		return env.Interactive(ctx, env.Workspace, sel.Title)
	}

	sendErr := env.Workspace.SendChat(ctx, *message)
	for _, m := range env.Workspace.Chat.Messages() {
		who := "you"
		if m.Sender == dispute.SenderAI {
			who = "mediator"
		}
		suffix := ""
		if m.State == dispute.MessageFailed {
			suffix = "  (not delivered)"
		}
		fmt.Fprintf(env.Out, "%s: %s%s\n", who, m.Content, suffix)
	}
	return sendErr
}

func runReport(ctx context.Context, env Env, args []string) error {
	pos, err := positional(newFlagSet("report", env), args, 1)
	if err != nil {
		return err
	}
	if err := selectDispute(ctx, env, pos[0]); err != nil {
		return err
	}
	path, err := env.Workspace.SaveReport()
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Out, path)
	return nil
}

func runExport(ctx context.Context, env Env, args []string) error {
	if _, err := positional(newFlagSet("export", env), args, 0); err != nil {
		return err
	}
	if err := loaded(ctx, env); err != nil {
		return err
	}
	paths, err := env.Workspace.ExportReports(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(env.Out, p)
	}
	fmt.Fprintf(env.Out, "%d report(s) written\n", len(paths))
	return nil
}

func runStats(ctx context.Context, env Env, args []string) error {
	if _, err := positional(newFlagSet("stats", env), args, 0); err != nil {
		return err
	}
	if err := loaded(ctx, env); err != nil {
		return err
	}
	st := env.Workspace.Stats()
	fmt.Fprintf(env.Out, "total:           %d\n", st.Total)
	fmt.Fprintf(env.Out, "resolved:        %d\n", st.Resolved)
	fmt.Fprintf(env.Out, "resolution rate: %d%%\n", st.ResolutionRate)
	return nil
}

func runHealth(ctx context.Context, env Env, args []string) error {
	if _, err := positional(newFlagSet("health", env), args, 0); err != nil {
		return err
	}
	report := env.Workspace.Health(ctx)
	if err := writeJSON(env.Out, report); err != nil {
		return err
	}
	if report.Status != health.StatusUp {
		return errUnhealthy
	}
	return nil
}

// loaded fills the store; every workflow resolves ids against it.
func loaded(ctx context.Context, env Env) error {
	_, err := env.Workspace.Refresh(ctx)
	return err
}

func selectDispute(ctx context.Context, env Env, id string) error {
	if err := loaded(ctx, env); err != nil {
		return err
	}
	return env.Workspace.SelectForMediation(id)
}
