package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SettleKaro/config"
	"SettleKaro/internal/app"
	"SettleKaro/internal/cli"
	"SettleKaro/internal/tui"
	"SettleKaro/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.NewClientConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	l := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := app.New(cfg, l)
	code := cli.Run(ctx, cli.Env{
		Workspace:   w,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Log:         l,
		Interactive: runChatUI,
	}, os.Args[1:])

	_ = w.Close()
	cancel()
	os.Exit(code)
}

func runChatUI(ctx context.Context, w *app.Workspace, title string) error {
	p := tea.NewProgram(tui.NewModel(ctx, w.Chat, title), tea.WithContext(ctx))
	stop := tui.Watch(p, w.Chat)
	defer stop()

	_, err := p.Run()
	return err
}
