package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"time"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	DefaultSnapshotDelay    = 1500 * time.Millisecond
	DefaultSnapshotMaxWidth = 1024
	snapshotJPEGQuality     = 85
)

// SnapshotUseCase captures a single poster frame of the animation.
type SnapshotUseCase struct {
	launcher          output.BrowserLauncher
	logger            output.LoggerPort
	navigationTimeout time.Duration
}

func NewSnapshotUseCase(launcher output.BrowserLauncher, logger output.LoggerPort, navigationTimeout time.Duration) *SnapshotUseCase {
	if navigationTimeout <= 0 {
		navigationTimeout = DefaultNavigationTimeout
	}
	if logger == nil {
		logger = output.NopLogger{}
	}
	return &SnapshotUseCase{
		launcher:          launcher,
		logger:            logger,
		navigationTimeout: navigationTimeout,
	}
}

func (uc *SnapshotUseCase) Capture(ctx context.Context, req entity.SnapshotRequest) (*entity.RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot request: %w", err)
	}

	start := time.Now()
	log := uc.logger.WithFields(map[string]any{
		"snapshot_id": uuid.NewString(),
		"url":         req.URL,
	})

	outputPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return nil, entity.NewRenderError(entity.KindPersist, "resolve output path", err)
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	session, err := uc.launcher.Launch(ctx, req.Viewport)
	if err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "launch browser", err)
	}
	defer session.Close()

	var warnings []string
	if err := session.Navigate(ctx, req.URL, uc.navigationTimeout); err != nil {
		log.Warn("Navigation failed, waiting for the app anyway", "error", err)
		warnings = append(warnings, fmt.Sprintf("%s: %v", entity.KindNavigation, err))
	}

	if err := session.Controller().WaitReady(ctx); err != nil {
		diagnostics := append(warnings, pageDiagnostics(ctx, session)...)
		return nil, entity.NewRenderError(timeoutOr(ctx, err, entity.KindReadiness), "wait for app", err, diagnostics...)
	}

	if req.Delay > 0 {
		select {
		case <-time.After(req.Delay):
		case <-ctx.Done():
			return nil, entity.NewRenderError(entity.KindSession, "wait for animation", ctx.Err(), warnings...)
		}
	}

	raw, err := session.Screenshot(ctx)
	if err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "capture screenshot", err, warnings...)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "decode screenshot", err, warnings...)
	}
	img = fitWidth(img, req.MaxWidth)

	format := imaging.PNG
	if req.Format == entity.ImageFormatJPEG {
		format = imaging.JPEG
	}

	size, err := writeAtomic(outputPath, func(w io.Writer) error {
		return imaging.Encode(w, img, format, imaging.JPEGQuality(snapshotJPEGQuality))
	})
	if err != nil {
		return nil, entity.NewRenderError(entity.KindPersist, "save "+outputPath, err, warnings...)
	}

	elapsed := time.Since(start)
	log.Info("Snapshot saved", "output", outputPath, "bytes", size,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy(), "duration_ms", elapsed.Milliseconds())

	return &entity.RenderResult{
		Path:     outputPath,
		Size:     size,
		Elapsed:  elapsed,
		Warnings: warnings,
	}, nil
}

func fitWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
