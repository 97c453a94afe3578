package ffmpegdecoder

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// FindFFmpeg searches for ffmpeg.
// Priority: 1) custom path, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// IsAvailable reports whether an ffmpeg binary can be found.
func IsAvailable(custom string) bool {
	_, err := FindFFmpeg(custom)
	return err == nil
}

// decodeArgs builds the ffmpeg command line that decodes the first video
// stream of input into packed rgb24 frames of width × height on stdout.
// Frames are passed through with their timestamps so variable frame rate
// sources yield one frame per sample.
func decodeArgs(input string, width, height int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", input,
		"-map", "0:v:0",
		"-an", "-sn",
		"-fps_mode", "passthrough",
		"-vf", fmt.Sprintf("scale=%d:%d:flags=neighbor", width, height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}
}
