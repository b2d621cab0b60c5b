package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/console"
)

func newConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive terminal: default, current hour, \"lat, lon\" or free text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			pane := a.console.Pane()
			pane.Append("> Welcome to the skygraph terminal", "> Set LATITUDE and LONGITUDE for the current hour command.")
			fmt.Fprint(out, console.Styled(pane.Lines()))

			if err := a.dash.Boot(ctx); err != nil {
				a.log.Error("initial graph load failed", zap.Error(err))
				fmt.Fprint(out, console.Styled([]string{"> Error: " + err.Error()}))
			}
			if a.cfg.Observer != nil {
				fmt.Fprint(out, console.Styled(a.console.Execute(ctx, "current hour")))
			}

			in := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "$ ")
				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				fmt.Fprint(out, console.Styled(a.console.Execute(ctx, line)))
			}
		},
	}
}
