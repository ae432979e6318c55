package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/subcanvas/internal/canvas"
	"github.com/mgpai22/subcanvas/internal/ffmpeg"
	"github.com/mgpai22/subcanvas/internal/player"
	"github.com/mgpai22/subcanvas/internal/render"
	"github.com/mgpai22/subcanvas/internal/session"
	"github.com/mgpai22/subcanvas/internal/subtitle"
	"github.com/mgpai22/subcanvas/internal/video"
	"github.com/spf13/cobra"
)

// flags shared by commands that render frames
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("subs", "s", "", "Subtitle file (srt, vtt, ass, ssa, stl, ttml)")
	cmd.Flags().Float64("width", 0, "Surface width (default from config)")
	cmd.Flags().Float64("height", 0, "Surface height (default from config)")
	cmd.Flags().Float64("pixel-ratio", 0, "Device pixel ratio of the surface (default from config)")
	cmd.Flags().Float64("fps", 0, "Render and decode rate in frames per second (default from config)")
}

func applyRenderFlags(cmd *cobra.Command) error {
	if v, _ := cmd.Flags().GetFloat64("width"); v > 0 {
		cfg.Surface.Width = v
	}
	if v, _ := cmd.Flags().GetFloat64("height"); v > 0 {
		cfg.Surface.Height = v
	}
	if v, _ := cmd.Flags().GetFloat64("pixel-ratio"); v > 0 {
		cfg.Surface.PixelRatio = v
	}
	if v, _ := cmd.Flags().GetFloat64("fps"); v > 0 {
		cfg.FPS = v
	}
	return cfg.Validate()
}

type rig struct {
	player  *player.Player
	canvas  *canvas.Canvas
	proc    *video.DefaultProcessor
	session *session.Session
}

// builds a player around an ffmpeg backed element and loads the inputs
func newRig(
	ctx context.Context,
	videoPath, subsPath string,
	sched render.Scheduler,
) (*rig, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", videoPath)
	}

	bin, err := ffmpeg.Locate(ffmpeg.BinaryPaths{
		FFmpeg:  cfg.FFmpegPath,
		FFprobe: cfg.FFprobePath,
	})
	if err != nil {
		return nil, err
	}
	logger.Debugw("Using ffmpeg", "ffmpeg", bin.FFmpeg, "ffprobe", bin.FFprobe)

	surface, err := canvas.New(
		evenSize(cfg.Surface.Width, cfg.Surface.PixelRatio),
		evenSize(cfg.Surface.Height, cfg.Surface.PixelRatio),
		cfg.Surface.PixelRatio,
		cfg.Style.FontSize,
	)
	if err != nil {
		return nil, err
	}

	proc := video.NewProcessor(bin)
	sess := session.New(logger, subtitle.FileParser{})

	p := player.New(player.Options{
		Logger:    logger,
		Session:   sess,
		Surface:   surface,
		Scheduler: sched,
		Style:     cfg.RenderStyle(),
		NewElement: func() player.Element {
			return video.NewElement(proc, cfg.FPS)
		},
	})

	if subsPath != "" {
		if _, err := p.LoadSubtitles(subsPath); err != nil {
			return nil, err
		}
	} else {
		logger.Warnw("No subtitle file given, rendering video only")
	}

	if err := p.LoadVideo(ctx, videoPath); err != nil {
		return nil, err
	}

	return &rig{player: p, canvas: surface, proc: proc, session: sess}, nil
}

// rounds a logical size so the backing raster has an even pixel count, which
// yuv420p encoding requires
func evenSize(logical, ratio float64) float64 {
	px := int(logical*ratio + 0.5)
	if px%2 == 1 {
		px++
	}
	return float64(px) / ratio
}

func defaultOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + suffix
}

func parseFraction(v float64) (float64, error) {
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("seek fraction must be within [0, 1], got %v", v)
	}
	return v, nil
}
