package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/swissknife"
)

func newScreenshotCmd(a *app) *cobra.Command {
	var (
		monitor string
		region  []int
	)

	cmd := &cobra.Command{
		Use:   "screenshot <file.png>",
		Short: "Save a screenshot as PNG",
		Example: `  swissknife screenshot shot.png
  swissknife screenshot shot.png --monitor dual
  swissknife screenshot shot.png --region 10,30,200,150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := swissknife.ParseMonitor(monitor)
			if err != nil {
				return err
			}

			var r *swissknife.Region
			if cmd.Flags().Changed("region") {
				if len(region) != 4 {
					return fmt.Errorf("--region wants x,y,width,height (got %d values)", len(region))
				}
				r = &swissknife.Region{X: region[0], Y: region[1], Width: region[2], Height: region[3]}
			}

			result, err := a.client.Screenshot(cmd.Context(), args[0], m, r)
			if err != nil {
				return err
			}
			if result != args[0] {
				return &ExitError{Code: 1, Err: fmt.Errorf("%s", result)}
			}
			fmt.Fprintln(a.stdout, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&monitor, "monitor", string(swissknife.Single), "single, dual or window")
	cmd.Flags().IntSliceVar(&region, "region", nil, "capture only x,y,width,height")

	return cmd
}

func newQuestionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "question <title> <text>",
		Short: "Ask a yes/no question; exits 0 on yes and 1 on no",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, err := a.client.QuestionBox(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintln(a.stdout, "no")
				return &ExitError{Code: 1}
			}
			fmt.Fprintln(a.stdout, "yes")
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <title> <text>",
		Short: "Show a message box",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.client.InfoBox(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newNotifyCmd(a *app) *cobra.Command {
	var opts swissknife.NotificationOptions

	cmd := &cobra.Command{
		Use:     "notify <title> <text>",
		Short:   "Show a tray balloon notification",
		Example: "  swissknife notify \"My Title\" \"Hello Notification\" --icon 77 --timeout 2s",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.client.Notification(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
	cmd.Flags().IntVar(&opts.Icon, "icon", 0, "shell32.dll icon index (0 uses the configured default)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", time.Duration(0), "how long the balloon stays visible (0 uses the configured default)")

	return cmd
}

func newWinCmd(a *app) *cobra.Command {
	var find string

	cmd := &cobra.Command{
		Use:   "win <action> <title>",
		Short: "Apply a window action (close, hide, flash, max, min, ...) to matching windows",
		Example: `  swissknife win flash Untit --find contains
  swissknife win close Calculator`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := swissknife.ParseFindMode(find)
			if err != nil {
				return err
			}
			action := swissknife.WinAction(strings.TrimSpace(args[0]))
			code, err := a.client.WinAction(cmd.Context(), args[1], mode, action)
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
	cmd.Flags().StringVar(&find, "find", string(swissknife.Equals), "title match: equals, contains, startswith or endswith")

	return cmd
}
