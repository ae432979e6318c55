package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mgpai22/subcanvas/internal/render"
	"github.com/mgpai22/subcanvas/internal/video"
	"github.com/spf13/cobra"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file]",
	Short: "Play a video and write every frame with its subtitles composited",
	Long: `Play the video from start (or from --seek) to end through the headless
player and encode each rendered frame into a new video file.

The frame is letterboxed into the surface size, and the subtitle active at each
frame's playback time is drawn on a translucent box near the bottom.

Examples:
  subcanvas burn movie.mp4 --subs movie.srt
  subcanvas burn movie.mp4 -s movie.vtt -o out.mp4 --width 1920 --height 1080
  subcanvas burn movie.mp4 -s movie.srt --seek 0.5 --realtime`,
	Args: cobra.ExactArgs(1),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)
	addRenderFlags(burnCmd)

	burnCmd.Flags().
		Float64("seek", 0, "Start playback at this fraction of the duration (0-1)")
	burnCmd.Flags().
		Bool("realtime", false, "Pace rendering to the refresh rate instead of running as fast as possible")
	burnCmd.Flags().
		String("codec", "", "Output video codec (default from config)")
	burnCmd.Flags().
		Int("crf", 0, "Constant rate factor for the encoder (default from config)")
	burnCmd.Flags().
		String("preset", "", "Encoder preset (default from config)")
}

type stepper interface {
	render.Scheduler
	Step() bool
}

var errPlaybackDone = errors.New("playback finished")

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	if err := applyRenderFlags(cmd); err != nil {
		return err
	}
	seekFlag, _ := cmd.Flags().GetFloat64("seek")
	seek, err := parseFraction(seekFlag)
	if err != nil {
		return err
	}
	realtime, _ := cmd.Flags().GetBool("realtime")
	subsPath, _ := cmd.Flags().GetString("subs")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutput(videoPath, ".subbed.mp4")
	}

	encodeOpts := video.EncodeOptions{
		Codec:  cfg.Encode.Codec,
		CRF:    cfg.Encode.CRF,
		Preset: cfg.Encode.Preset,
	}
	if v, _ := cmd.Flags().GetString("codec"); v != "" {
		encodeOpts.Codec = v
	}
	if v, _ := cmd.Flags().GetInt("crf"); v > 0 {
		encodeOpts.CRF = v
	}
	if v, _ := cmd.Flags().GetString("preset"); v != "" {
		encodeOpts.Preset = v
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var (
		sched  stepper
		ticker *render.TickerScheduler
	)
	if realtime {
		ticker = render.NewTickerScheduler(cfg.FPS)
		sched = ticker
	} else {
		sched = render.NewStepScheduler()
	}

	r, err := newRig(ctx, videoPath, subsPath, sched)
	if err != nil {
		return err
	}
	defer r.player.Close()

	if seek > 0 {
		if err := r.player.Seek(seek); err != nil {
			return err
		}
	}

	bounds := r.canvas.Image().Bounds()
	enc, err := r.proc.OpenEncoder(ctx, outputPath, bounds.Dx(), bounds.Dy(), cfg.FPS, encodeOpts)
	if err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	logger.Infow("Rendering",
		"input", videoPath,
		"subtitles", subsPath,
		"output", outputPath,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"fps", cfg.FPS,
		"realtime", realtime,
	)

	if err := r.player.TogglePlayPause(); err != nil {
		_ = enc.Close()
		return err
	}

	lastDecile := -1
	tick := func() error {
		if !sched.Step() {
			return errPlaybackDone
		}
		if err := enc.WriteFrame(r.canvas.Image()); err != nil {
			return err
		}
		if err := r.player.Advance(); err != nil {
			return fmt.Errorf("decoding failed: %w", err)
		}
		if decile := int(r.player.Progress() / 10); decile != lastDecile {
			lastDecile = decile
			logger.Infow("Progress",
				"percent", fmt.Sprintf("%.0f", r.player.Progress()),
				"frames", enc.Frames(),
			)
		}
		// the final redraw after the end of media would repeat the last frame
		if !r.player.Controller().Playing() {
			return errPlaybackDone
		}
		return nil
	}

	if realtime {
		err = ticker.Run(ctx, tick)
	} else {
		for err == nil {
			if ctx.Err() != nil {
				err = ctx.Err()
				break
			}
			err = tick()
		}
	}

	closeErr := enc.Close()
	if !errors.Is(err, errPlaybackDone) {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Video rendered successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Frames: %d\n", enc.Frames())
	fmt.Fprintf(cmd.OutOrStdout(), "  Cues: %d\n", len(r.session.Cues()))

	return nil
}
