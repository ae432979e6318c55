package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mgpai22/subcanvas/internal/render"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [video_file]",
	Short: "Render a single frame with its subtitle to a PNG",
	Long: `Load the video, seek to --at (a fraction of the duration) and write the
paused redraw at that instant as a PNG image.

Examples:
  subcanvas snapshot movie.mp4 --subs movie.srt --at 0.5
  subcanvas snapshot movie.mp4 -s movie.ass --at 0.25 -o frame.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addRenderFlags(snapshotCmd)

	snapshotCmd.Flags().
		Float64("at", 0, "Position to render as a fraction of the duration (0-1)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	if err := applyRenderFlags(cmd); err != nil {
		return err
	}
	atFlag, _ := cmd.Flags().GetFloat64("at")
	at, err := parseFraction(atFlag)
	if err != nil {
		return err
	}
	subsPath, _ := cmd.Flags().GetString("subs")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutput(videoPath, ".png")
	}

	sched := render.NewStepScheduler()
	r, err := newRig(cmd.Context(), videoPath, subsPath, sched)
	if err != nil {
		return err
	}
	defer r.player.Close()

	if err := r.player.Seek(at); err != nil {
		return err
	}
	for sched.Step() {
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := png.Encode(f, r.canvas.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Infow("Snapshot written",
		"time", r.player.CurrentTime(),
		"cue", firstCue(r.session.Query(r.player.CurrentTime())),
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot saved: %s\n", absOutput)
	return nil
}

func firstCue(matches []string) string {
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}
