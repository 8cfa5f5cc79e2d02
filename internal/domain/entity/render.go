package entity

import (
	"errors"
	"time"
)

const (
	DefaultViewportWidth     = 480
	DefaultViewportHeight    = 480
	DefaultDeviceScaleFactor = 2.0
)

var (
	ErrEmptyURL        = errors.New("render url is empty")
	ErrEmptyOutputPath = errors.New("output path is empty")
	ErrInvalidViewport = errors.New("viewport must be positive")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
)

type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

func DefaultViewport() Viewport {
	return Viewport{
		Width:             DefaultViewportWidth,
		Height:            DefaultViewportHeight,
		DeviceScaleFactor: DefaultDeviceScaleFactor,
	}
}

// RenderRequest is built right before a render and dropped once it returns.
type RenderRequest struct {
	URL        string
	OutputPath string
	Viewport   Viewport
	Timeout    time.Duration
}

// Validate checks the request shape only. Whether the output directory is
// writable is decided when the file is persisted.
func (r RenderRequest) Validate() error {
	if r.URL == "" {
		return ErrEmptyURL
	}
	if r.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if r.Viewport.Width <= 0 || r.Viewport.Height <= 0 {
		return ErrInvalidViewport
	}
	if r.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

type RenderResult struct {
	Path     string
	Size     int64
	Elapsed  time.Duration
	Warnings []string
}

type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatJPEG ImageFormat = "jpeg"
)

// SnapshotRequest asks for a single still frame of the animation after
// Delay has elapsed since the application became ready.
type SnapshotRequest struct {
	URL        string
	OutputPath string
	Viewport   Viewport
	Timeout    time.Duration
	Delay      time.Duration
	MaxWidth   int
	Format     ImageFormat
}

func (r SnapshotRequest) Validate() error {
	return RenderRequest{
		URL:        r.URL,
		OutputPath: r.OutputPath,
		Viewport:   r.Viewport,
		Timeout:    r.Timeout,
	}.Validate()
}

// DownloadArtifact points at a finished browser download on local disk.
type DownloadArtifact struct {
	GUID              string
	SuggestedFilename string
	Path              string
}
