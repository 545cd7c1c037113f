// Package swissknife drives Windows desktop automation (speech, volume,
// screenshots, dialogs, notifications, window actions, beeps and MP3
// playback) through two bundled helper executables, NirCmd and cmdmp3.
//
// The helpers are compiled into the program. On first use each one is
// written to a per-user cache directory and then run with a command line
// built from the call's arguments:
//
//	c, err := swissknife.New(ctx, swissknife.Config{})
//	if err != nil {
//		return err
//	}
//	yes, err := c.QuestionBox(ctx, "A Question", "Do you want to quit smoking?")
//
// Only Windows hosts run helpers. Elsewhere every call writes a diagnostic
// to stderr and returns exit code -1 without touching the disk.
package swissknife
