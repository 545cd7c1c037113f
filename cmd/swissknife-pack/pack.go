package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/git"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/payload"
)

// passphraseEnv holds the passphrase of an encrypted signing key.
const passphraseEnv = "SWISSKNIFE_SIGNING_PASSPHRASE"

// packOptions controls packBinaries.
type packOptions struct {
	// SrcDir holds the raw <name>.exe files.
	SrcDir string
	// OutDir is the payload directory to write.
	OutDir string
	// Binaries to pack.
	Binaries []binary.Binary
	// SigningKey is an optional armored private key path.
	SigningKey string
	// Passphrase decrypts SigningKey.
	Passphrase []byte
}

func newPackCmd(logger *log.Logger) *cobra.Command {
	var (
		opts  packOptions
		names []string
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Encode raw helper executables into payload files",
		Long: `Reads <src>/<name>.exe for each --bin, writes <out>/<name>.b64 (base64,
100 columns, CRLF) and records its SHA-256 in <out>/checksums.txt. Entries for
helpers not named are kept. With --sign-key the manifest is signed and the
public key is written next to it; without it any old signature is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bins, err := parseBinaries(names)
			if err != nil {
				return err
			}
			opts.Binaries = bins
			opts.Passphrase = []byte(os.Getenv(passphraseEnv))
			return packBinaries(cmd.Context(), logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SrcDir, "src", "bin", "directory holding the raw .exe files")
	cmd.Flags().StringVar(&opts.OutDir, "out", defaultPayloadDir, "payload directory to write")
	cmd.Flags().StringSliceVar(&names, "bin", nil, "helper to pack (nircmd, cmdmp3); default all")
	cmd.Flags().StringVar(&opts.SigningKey, "sign-key", "", "armored OpenPGP private key to sign checksums.txt ($"+passphraseEnv+" decrypts it)")

	return cmd
}

// parseBinaries maps helper names to Binaries; no names means all helpers.
func parseBinaries(names []string) ([]binary.Binary, error) {
	if len(names) == 0 {
		return binary.All, nil
	}
	bins := make([]binary.Binary, 0, len(names))
	for _, name := range names {
		b, err := binary.Parse(name)
		if err != nil {
			return nil, err
		}
		bins = append(bins, b)
	}
	return bins, nil
}

func packBinaries(ctx context.Context, logger *log.Logger, opts packOptions) error {
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return fmt.Errorf("create payload dir: %w", err)
	}

	manifestPath := filepath.Join(opts.OutDir, payload.ChecksumFile)
	sums, err := readManifest(manifestPath)
	if err != nil {
		return err
	}

	// The revision is read before any payload is written so the tree
	// state reflects the sources, not our own output.
	sums.Comments = []string{"generated-by: swissknife-pack"}
	if rev, err := git.NewClient(opts.SrcDir).Revision(ctx); err == nil {
		sums.Comments = append(sums.Comments, "source-revision: "+rev)
	} else {
		logger.Debug("no source revision", "err", err)
	}

	for _, b := range opts.Binaries {
		if err := ctx.Err(); err != nil {
			return err
		}

		src := filepath.Join(opts.SrcDir, b.FileName())
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}

		dst := filepath.Join(opts.OutDir, b.PayloadName())
		if err := os.WriteFile(dst, []byte(payload.Wrap(data)), 0644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		sums.Set(b.FileName(), payload.Sum(data))

		logger.Info("packed", "binary", b.String(), "bytes", len(data), "payload", dst)
	}

	manifest := []byte(sums.Format())
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return fmt.Errorf("write %s: %w", manifestPath, err)
	}

	sigPath := filepath.Join(opts.OutDir, binary.SignatureFile)
	keyPath := filepath.Join(opts.OutDir, binary.SigningKeyFile)

	if opts.SigningKey == "" {
		for _, stale := range []string{sigPath, keyPath} {
			if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove stale %s: %w", stale, err)
			}
		}
		return nil
	}

	return signManifest(logger, opts, manifest, sigPath, keyPath)
}

func readManifest(path string) (*payload.Checksums, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return payload.NewChecksums(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sums, err := payload.ParseChecksums(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sums, nil
}

func signManifest(logger *log.Logger, opts packOptions, manifest []byte, sigPath, keyPath string) error {
	keyring, err := os.ReadFile(opts.SigningKey)
	if err != nil {
		return fmt.Errorf("read signing key: %w", err)
	}

	signer, err := binary.ReadSigningKey(keyring, opts.Passphrase)
	if err != nil {
		return err
	}

	var sig bytes.Buffer
	if err := binary.Sign(&sig, signer, manifest); err != nil {
		return err
	}
	if err := os.WriteFile(sigPath, sig.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", sigPath, err)
	}

	var pub bytes.Buffer
	if err := binary.ExportPublicKey(&pub, signer); err != nil {
		return err
	}
	if err := os.WriteFile(keyPath, pub.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}

	logger.Info("signed manifest", "signature", sigPath, "key", keyPath)
	return nil
}
