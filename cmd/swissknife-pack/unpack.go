package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// unpackPrefix marks executables reconstituted for comparison so they do
// not overwrite the originals in the source folder.
const unpackPrefix = "temp_"

func newUnpackCmd(logger *log.Logger) *cobra.Command {
	var (
		payloadDir string
		outDir     string
		names      []string
	)

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Decode payloads back into executables for comparison",
		Long: `Writes <out>/temp_<name>.exe from each payload, after checking the
manifest signature (if any) and the SHA-256 of the decoded bytes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bins, err := parseBinaries(names)
			if err != nil {
				return err
			}
			return unpackBinaries(logger, payloadDir, outDir, bins)
		},
	}

	cmd.Flags().StringVar(&payloadDir, "payloads", defaultPayloadDir, "payload directory to read")
	cmd.Flags().StringVar(&outDir, "out", "bin", "directory to write temp_<name>.exe into")
	cmd.Flags().StringSliceVar(&names, "bin", nil, "helper to unpack (nircmd, cmdmp3); default all")

	return cmd
}

func unpackBinaries(logger *log.Logger, payloadDir, outDir string, bins []binary.Binary) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	src := binary.NewSource(os.DirFS(payloadDir))
	for _, b := range bins {
		p, err := src.Load(b)
		if err != nil {
			return err
		}

		dest := filepath.Join(outDir, unpackPrefix+b.FileName())
		if err := binary.Materialize(p, dest); err != nil {
			return err
		}

		logger.Info("unpacked", "binary", b.String(), "path", dest, "verified", p.Verified.String())
	}

	return nil
}

func newVerifyCmd(logger *log.Logger) *cobra.Command {
	var payloadDir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every payload decodes to its recorded checksum",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return verifyPayloads(logger, payloadDir)
		},
	}
	cmd.Flags().StringVar(&payloadDir, "payloads", defaultPayloadDir, "payload directory to read")

	return cmd
}

// verifyPayloads checks each payload present in dir. Missing payloads are
// reported but are not an error.
func verifyPayloads(logger *log.Logger, dir string) error {
	src := binary.NewSource(os.DirFS(dir))

	checked := 0
	for _, b := range binary.All {
		if !src.Has(b) {
			logger.Warn("payload not present", "binary", b.String())
			continue
		}

		p, err := src.Load(b)
		if err != nil {
			return err
		}
		data, err := payload.Decode(p.Text)
		if err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
		if got := payload.Sum(data); got != p.Checksum {
			return fmt.Errorf("%w: %s: expected %s, got %s", binary.ErrChecksumMismatch, b.FileName(), p.Checksum, got)
		}

		logger.Info("ok", "binary", b.String(), "bytes", len(data), "verified", p.Verified.String())
		checked++
	}

	if checked == 0 {
		return fmt.Errorf("no payloads found in %s", dir)
	}
	return nil
}
