package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/skygraph/internal/dashboard"
	"github.com/MalithGihan/skygraph/internal/graphview"
)

func newGraphCommand() *cobra.Command {
	var hour, svgOut string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Fetch the full graph, or the subgraph for one hour, and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var n *graphview.Network
			if hour != "" {
				n, err = a.dash.Viewer().FilterByHour(cmd.Context(), hour)
			} else {
				n, err = a.dash.Viewer().LoadFullGraph(cmd.Context())
			}
			if err != nil {
				return err
			}

			if svgOut == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(n)
			}
			var w io.Writer = cmd.OutOrStdout()
			if svgOut != "-" {
				f, err := os.Create(svgOut)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := graphview.RenderSVG(w, n, dashboard.SVGWidth, dashboard.SVGHeight); err != nil {
				return err
			}
			if svgOut != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d nodes, %d edges written to %s\n", len(n.Nodes), len(n.Edges), svgOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hour, "hour", "", "hour entity to filter by")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write an SVG snapshot to this file (- for stdout)")
	return cmd
}
