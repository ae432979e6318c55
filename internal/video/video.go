package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/subcanvas/internal/ffmpeg"
)

var ErrNoVideoStream = errors.New("no video stream")

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// defines interface for video processing operations
type Processor interface {
	// retrieves video file information
	GetInfo(ctx context.Context, videoPath string) (*Info, error)

	// starts decoding RGBA frames at start seconds, resampled to fps
	OpenDecoder(ctx context.Context, info *Info, start, fps float64) (FrameReader, error)

	// starts encoding width x height RGBA frames at fps into outputPath
	OpenEncoder(ctx context.Context, outputPath string, width, height int, fps float64, opts EncodeOptions) (*Encoder, error)
}

// sequential source of decoded frames; Next returns io.EOF at the end
type FrameReader interface {
	Next() (*image.RGBA, error)
	Close() error
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	bin ffmpeg.BinaryPaths
}

func NewProcessor(bin ffmpeg.BinaryPaths) *DefaultProcessor {
	return &DefaultProcessor{bin: bin}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// retrieves video file information
func (p *DefaultProcessor) GetInfo(
	ctx context.Context,
	videoPath string,
) (*Info, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	cmd := exec.CommandContext(ctx, p.bin.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbe(out.Bytes())
	if err != nil {
		return nil, err
	}
	info.Path = videoPath
	return info, nil
}

func parseProbe(data []byte) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	found := false
	streamDuration := ""
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			if found {
				continue
			}
			found = true
			info.Width = s.Width
			info.Height = s.Height
			info.Codec = s.CodecName
			info.FrameRate = parseRate(s.AvgFrameRate)
			if info.FrameRate == 0 {
				info.FrameRate = parseRate(s.RFrameRate)
			}
			streamDuration = s.Duration
		case "audio":
			info.HasAudio = true
		}
	}
	if !found {
		return nil, ErrNoVideoStream
	}

	duration := probe.Format.Duration
	if duration == "" {
		duration = streamDuration
	}
	if duration != "" {
		seconds, err := strconv.ParseFloat(duration, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	return info, nil
}

// parses ffprobe rates such as "30000/1001" or "25"
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
