package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/pubmirror/cmd/pubmirror"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := pubmirror.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		styles := output.NewStyles(lipgloss.NewRenderer(os.Stderr))
		fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}
