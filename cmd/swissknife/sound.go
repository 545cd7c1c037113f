package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/swissknife"
)

func newSpeakCmd(a *app) *cobra.Command {
	var opts swissknife.SpeakOptions

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Read text aloud with the system voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.client.Speak(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
	cmd.Flags().IntVar(&opts.Rate, "rate", 0, "speech rate from -10 to 10 (0 uses the configured default)")
	cmd.Flags().IntVar(&opts.Volume, "volume", 0, "speech volume from 1 to 100 (0 uses the configured default)")

	return cmd
}

func newVolumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "volume <0-100>",
		Short: "Set the system volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("volume %q is not a number", args[0])
			}
			code, err := a.client.SetVolume(cmd.Context(), volume)
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newMuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Mute the system sound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := a.client.Mute(cmd.Context())
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newUnmuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unmute",
		Short: "Unmute the system sound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := a.client.Unmute(cmd.Context())
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newBeepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "beep <frequency-hz> <duration-ms>",
		Short:   "Play a tone on the system speaker",
		Example: "  swissknife beep 500 1000",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("frequency %q is not a number", args[0])
			}
			ms, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("duration %q is not a number", args[1])
			}
			code, err := a.client.Beep(cmd.Context(), freq, ms)
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newWinBeepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "winbeep",
		Short: "Play the standard Windows notification sound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := a.client.WinBeep(cmd.Context())
			if err != nil {
				return err
			}
			return exitStatus(code)
		},
	}
}

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <file.mp3>",
		Short: "Play an MP3 file to the end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.client.PlayMP3(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return &ExitError{Code: 1, Err: fmt.Errorf("could not play %s", args[0])}
			}
			return nil
		},
	}
}
