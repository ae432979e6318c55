package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/mgpai22/subcanvas/internal/subtitle"
	"github.com/spf13/cobra"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [subtitle_file]",
	Short: "Show the cues active at a given instant",
	Long: `Ingest a subtitle file and print the cues whose time range contains --at.
When several cues overlap, the one marked with * is what the player draws.
Without --at every cue is listed.

Examples:
  subcanvas cues movie.srt --at 62.5
  subcanvas cues movie.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	cuesCmd.Flags().
		Float64("at", -1, "Playback time in seconds to look up")
}

func runCues(cmd *cobra.Command, args []string) error {
	path := args[0]
	at, _ := cmd.Flags().GetFloat64("at")
	out := cmd.OutOrStdout()

	raw, err := subtitle.Open(path)
	if err != nil {
		return err
	}
	cues, index, err := subtitle.IngestCues(raw)
	if err != nil {
		return err
	}
	logger.Debugw("Cues ingested",
		"path", path,
		"cues", len(cues),
		"dropped", len(raw)-len(cues),
	)

	if at < 0 {
		for _, c := range cues {
			fmt.Fprintf(out, "  [%s --> %s] %s\n", stamp(c.StartSeconds), stamp(c.EndSeconds), oneLine(c.Text))
		}
		fmt.Fprintf(out, "%d cues\n", len(cues))
		return nil
	}

	matches := 0
	index.Each(at, func(start, end float64, text string) bool {
		marker := " "
		if matches == 0 {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%s --> %s] %s\n", marker, stamp(start), stamp(end), oneLine(text))
		matches++
		return true
	})
	if matches == 0 {
		fmt.Fprintf(out, "no cue at %s\n", stamp(at))
	}
	return nil
}

func stamp(seconds float64) string {
	return subtitle.FormatTimestamp(time.Duration(seconds*1000+0.5) * time.Millisecond)
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " / ")
}
