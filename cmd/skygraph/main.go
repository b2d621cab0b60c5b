package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "skygraph",
		Short: "Magic hour graph and sky overlay dashboard",
		Long: `skygraph reads graph and ephemeris data from the chart API, filters and
lays out the magic hour graph, and paints the sky overlay from planetary
readings. Run it as a server or use the one-shot commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newSkyCommand())
	rootCmd.AddCommand(newConsoleCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
