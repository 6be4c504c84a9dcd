package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/lsrview/internal/config"
)

// FFmpegSink streams raw RGBA frames to an ffmpeg process.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    bytes.Buffer
	size   image.Point
	frames int
}

func NewFFmpegSink(
	ctx context.Context,
	videoPath string,
	params config.OutputParams,
	filter string,
	encoderName string,
	quality int,
) (*FFmpegSink, error) {
	s := &FFmpegSink{size: image.Pt(params.SourceWidth, params.SourceHeight)}
	args := buildFFmpegArgs(params.SourceWidth, params.SourceHeight, videoPath, params, filter, encoderName, quality)

	s.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	s.cmd.Stdout = &s.out
	s.cmd.Stderr = &s.out

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return s, nil
}

func buildFFmpegArgs(
	inputW, inputH int,
	videoPath string,
	params config.OutputParams,
	filter string,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)

	// Качество в зависимости от энкодера
	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

// WriteFrame sends one frame. Its size must match the source size given
// to NewFFmpegSink.
func (s *FFmpegSink) WriteFrame(img *image.RGBA) error {
	if img.Rect.Size() != s.size {
		return fmt.Errorf("frame size %v, expected %v", img.Rect.Size(), s.size)
	}
	// Запись raw RGBA данных
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (s *FFmpegSink) Frames() int { return s.frames }

// Close flushes the stream and waits for ffmpeg to finish.
func (s *FFmpegSink) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, s.out.String())
	}
	return nil
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	// Проверяем, является ли изображение уже RGBA и имеет ли стандартный шаг (stride)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rectangle{Max: bounds.Size()})
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
