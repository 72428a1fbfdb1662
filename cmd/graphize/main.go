package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphize/internal/cli"
	errs "github.com/matzehuels/graphize/pkg/errors"
)

var styleFailure = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Stderr.WriteString(styleFailure.Render("✗ "+errs.UserMessage(err)) + "\n")
		os.Exit(errs.ExitCode(err))
	}
}
