// Command swissknife-pack converts helper executables into the embedded
// payload format and back.
//
//	swissknife-pack pack --src bin --bin nircmd --bin cmdmp3
//	swissknife-pack unpack --bin nircmd --out bin
//	swissknife-pack verify
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// defaultPayloadDir is the embedded payload directory, relative to the
// module root.
const defaultPayloadDir = "internal/binary/payload"

func newRootCmd(logger *log.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "swissknife-pack",
		Short:        "Build and check the embedded helper payloads",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")

	root.AddCommand(
		newPackCmd(logger),
		newUnpackCmd(logger),
		newVerifyCmd(logger),
	)

	return root
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "swissknife-pack",
		Level:  log.InfoLevel,
	})

	if err := fang.Execute(context.Background(), newRootCmd(logger), fang.WithNotifySignal(os.Interrupt)); err != nil {
		os.Exit(1)
	}
}
