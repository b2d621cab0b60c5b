package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/skygraph/internal/console"
	"github.com/MalithGihan/skygraph/pkg/types"
)

func newSkyCommand() *cobra.Command {
	var (
		lat, lon float64
		out      string
	)
	cmd := &cobra.Command{
		Use:   "sky",
		Short: "Render the sky overlay for a location and print the ephemeris report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.dash.Refresh(cmd.Context(), types.Coordinates{Latitude: lat, Longitude: lon})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), console.Styled(console.Report(res.Ephemeris)))
			if res.Sky == nil {
				return fmt.Errorf("sky overlay: %s", res.SkyError)
			}
			for _, w := range res.Sky.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), w)
			}
			if out != "" {
				if err := os.WriteFile(out, res.Sky.PNG, 0o644); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "job %s saved under %s\n", res.JobID, a.dash.Store().JobDir(res.JobID))
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "observer latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "observer longitude")
	cmd.Flags().StringVar(&out, "out", "", "also write the PNG to this file")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")
	return cmd
}
