package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Locate resolves the ffmpeg and ffprobe executables. Explicit overrides win,
// then the SUBCANVAS_FFMPEG_PATH / SUBCANVAS_FFPROBE_PATH environment
// variables, then PATH, then binaries previously unpacked into the user cache
// directory.
func Locate(override BinaryPaths) (BinaryPaths, error) {
	paths := override
	if paths.FFmpeg == "" {
		paths.FFmpeg = os.Getenv("SUBCANVAS_FFMPEG_PATH")
	}
	if paths.FFprobe == "" {
		paths.FFprobe = os.Getenv("SUBCANVAS_FFPROBE_PATH")
	}

	if paths.FFmpeg == "" {
		paths.FFmpeg = lookup("ffmpeg")
	}
	if paths.FFprobe == "" {
		paths.FFprobe = lookup("ffprobe")
	}

	var missing []string
	if paths.FFmpeg == "" {
		missing = append(missing, "ffmpeg")
	}
	if paths.FFprobe == "" {
		missing = append(missing, "ffprobe")
	}
	if len(missing) > 0 {
		return BinaryPaths{}, fmt.Errorf(
			"%w: %s (install ffmpeg or set SUBCANVAS_FFMPEG_PATH and SUBCANVAS_FFPROBE_PATH)",
			ErrNotFound,
			strings.Join(missing, ", "),
		)
	}
	return paths, nil
}

func lookup(name string) string {
	if found, err := exec.LookPath(name); err == nil {
		return found
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil || cacheDir == "" {
		return ""
	}
	candidate := filepath.Join(cacheDir, "subcanvas", "ffmpeg", runtime.GOOS, runtime.GOARCH, name+executableSuffix())
	if fileExists(candidate) {
		return candidate
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
