package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Decoder streams raw RGBA frames out of an ffmpeg process.
type Decoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	frame  *image.RGBA
	done   bool

	// closed once the process has been reaped; stops the cancel watcher
	exited   chan struct{}
	exitOnce sync.Once
	watching chan struct{}
}

func (p *DefaultProcessor) OpenDecoder(
	ctx context.Context,
	info *Info,
	start, fps float64,
) (FrameReader, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("cannot decode %s: unknown frame size", info.Path)
	}

	input := ffmpeg.KwArgs{}
	if start > 0 {
		input["ss"] = fmt.Sprintf("%.3f", start)
	}

	cmd := ffmpeg.Input(info.Path, input).
		Output("pipe:", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
			"r":       fps,
			"an":      "",
			"sn":      "",
		}).
		SetFfmpegPath(p.bin.FFmpeg).
		Compile()

	d := &Decoder{
		cmd:      cmd,
		frame:    image.NewRGBA(image.Rect(0, 0, info.Width, info.Height)),
		exited:   make(chan struct{}),
		watching: make(chan struct{}),
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open decoder pipe: %w", err)
	}
	d.stdout = stdout
	cmd.Stderr = &d.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg decoder: %w", err)
	}

	go watchCancel(ctx, cmd, d.exited, d.watching)

	return d, nil
}

// Next reads the following frame into a buffer reused across calls. It
// returns io.EOF once the stream is exhausted.
func (d *Decoder) Next() (*image.RGBA, error) {
	if d.done {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(d.stdout, d.frame.Pix); err != nil {
		d.done = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if werr := d.wait(); werr != nil {
				return nil, werr
			}
			return nil, io.EOF
		}
		d.kill()
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	return d.frame, nil
}

func (d *Decoder) wait() error {
	err := d.cmd.Wait()
	d.exitOnce.Do(func() { close(d.exited) })
	if err != nil {
		msg := strings.TrimSpace(d.stderr.String())
		if msg != "" {
			return fmt.Errorf("ffmpeg decoder failed: %w: %s", err, lastLine(msg))
		}
		return fmt.Errorf("ffmpeg decoder failed: %w", err)
	}
	return nil
}

// stops the ffmpeg process
func (d *Decoder) Close() error {
	if d.done {
		return nil
	}
	d.done = true
	d.kill()
	return nil
}

func (d *Decoder) kill() {
	_ = d.stdout.Close()
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	_ = d.cmd.Wait()
	d.exitOnce.Do(func() { close(d.exited) })
}

// kills the process when ctx ends first; returns once exited is closed
func watchCancel(ctx context.Context, cmd *exec.Cmd, exited <-chan struct{}, watching chan<- struct{}) {
	defer close(watching)
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	case <-exited:
	}
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
