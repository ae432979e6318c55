package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// holds options for encoding the composited output
type EncodeOptions struct {
	Codec  string // video codec, e.g. libx264; empty lets ffmpeg choose
	CRF    int    // constant rate factor for x264/x265, 0 keeps the default
	Preset string // encoder preset, e.g. veryfast
}

// Encoder feeds raw RGBA frames into an ffmpeg process.
type Encoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
	frames int

	exited   chan struct{}
	exitOnce sync.Once
	watching chan struct{}
}

func (p *DefaultProcessor) OpenEncoder(
	ctx context.Context,
	outputPath string,
	width, height int,
	fps float64,
	opts EncodeOptions,
) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", width, height)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}
	if opts.Codec != "" {
		kwargs["c:v"] = opts.Codec
	}
	if opts.CRF > 0 {
		kwargs["crf"] = opts.CRF
	}
	if opts.Preset != "" {
		kwargs["preset"] = opts.Preset
	}

	cmd := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(p.bin.FFmpeg).
		Compile()

	e := &Encoder{
		cmd:      cmd,
		width:    width,
		height:   height,
		exited:   make(chan struct{}),
		watching: make(chan struct{}),
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder pipe: %w", err)
	}
	e.stdin = stdin
	cmd.Stderr = &e.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg encoder: %w", err)
	}

	go watchCancel(ctx, cmd, e.exited, e.watching)

	return e, nil
}

// writes one frame; img must match the encoder size
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("frame size %dx%d does not match encoder %dx%d", b.Dx(), b.Dy(), e.width, e.height)
	}

	rowBytes := e.width * 4
	if img.Stride == rowBytes {
		if _, err := e.stdin.Write(img.Pix[:rowBytes*e.height]); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
		}
	} else {
		for y := 0; y < e.height; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
			if _, err := e.stdin.Write(row); err != nil {
				return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
			}
		}
	}
	e.frames++
	return nil
}

// number of frames written so far
func (e *Encoder) Frames() int {
	return e.frames
}

// flushes the stream and waits for ffmpeg to finish the file
func (e *Encoder) Close() error {
	closeErr := e.stdin.Close()
	err := e.cmd.Wait()
	e.exitOnce.Do(func() { close(e.exited) })
	if closeErr != nil {
		return fmt.Errorf("failed to close encoder pipe: %w", closeErr)
	}
	if err != nil {
		msg := strings.TrimSpace(e.stderr.String())
		if msg != "" {
			return fmt.Errorf("ffmpeg encoding failed: %w: %s", err, lastLine(msg))
		}
		return fmt.Errorf("ffmpeg encoding failed: %w", err)
	}
	return nil
}
