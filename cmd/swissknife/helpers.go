package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/swissknife"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Write every helper to the cache directory now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Install(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, okStyle.Render("✓")+" helpers installed in "+a.client.CacheRoot())
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show platform, cache directory and helper state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printStatus(cmd.Context())
		},
	}
}

func (a *app) printStatus(ctx context.Context) error {
	info := a.client.Platform()
	root := a.client.CacheRoot()

	row := func(label, value string) {
		fmt.Fprintln(a.stdout, "  "+labelStyle.Render(label)+value)
	}

	fmt.Fprintln(a.stdout, titleStyle.Render("swissknife"))

	host := info.Family.String()
	if info.Platform != "" {
		host = fmt.Sprintf("%s %s", info.Platform, info.Version)
	}
	if !info.IsWindows() {
		host += " " + warnStyle.Render("(helpers only run on Windows)")
	}
	row("platform", fmt.Sprintf("%s (%s)", host, info.Arch))

	if root == "" {
		row("cache root", errStyle.Render("unknown (home directory not set)"))
	} else {
		row("cache root", root)
		if usage, err := cacheUsage(ctx, root); err == nil {
			row("disk free", fmt.Sprintf("%s of %s", humanBytes(usage.Free), humanBytes(usage.Total)))
		} else {
			a.logger.Debug("disk usage unavailable", "path", root, "error", err)
		}
	}
	if a.cfg.Source != "" {
		row("config", a.cfg.Source)
	}

	statuses, err := a.client.Status()
	if err != nil {
		return err
	}
	for _, st := range statuses {
		row(st.Binary.String(), describeHelper(st))
	}

	return nil
}

func describeHelper(st *swissknife.HelperStatus) string {
	var state string
	switch {
	case !st.Installed && !st.Embedded:
		state = errStyle.Render("not embedded in this build") + " (" + binary.RegenerateHint(st.Binary) + ")"
	case !st.Installed:
		state = warnStyle.Render("not installed")
	case st.Current:
		state = okStyle.Render("installed") + fmt.Sprintf(" (%s)", humanBytes(uint64(st.Size)))
	default:
		state = warnStyle.Render("installed, differs from embedded copy") + fmt.Sprintf(" (%s)", humanBytes(uint64(st.Size)))
	}
	return state
}

// cacheUsage reports usage of the volume holding path, walking up to the
// nearest existing directory.
func cacheUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	dir := path
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no existing parent of %s", path)
		}
		dir = parent
	}
	return disk.UsageWithContext(ctx, dir)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the helper cache directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the helper cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := a.client.CacheRoot()
			if root == "" {
				return errors.New("cache root unknown: set HOME (USERPROFILE on Windows) or --cache-root")
			}
			fmt.Fprintln(a.stdout, root)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove materialized helpers; they are rewritten on next use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := a.client.Clean()
			if err != nil {
				return err
			}
			for _, path := range removed {
				fmt.Fprintln(a.stdout, "removed "+path)
			}
			if len(removed) == 0 {
				fmt.Fprintln(a.stdout, "nothing to remove")
			}
			return nil
		},
	})

	return cmd
}
