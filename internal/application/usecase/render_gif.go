package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	DefaultFrameMultiplier   = 15
	DefaultNavigationTimeout = 60 * time.Second
	DefaultRenderTimeout     = 180 * time.Second

	diagnosticsTimeout = 3 * time.Second
	pageTextExcerpt    = 200
)

type RenderGIFConfig struct {
	NavigationTimeout time.Duration
	// FrameMultiplier is handed to the application as is. Higher values skip
	// more frames and finish sooner.
	FrameMultiplier int
}

func DefaultRenderGIFConfig() RenderGIFConfig {
	return RenderGIFConfig{
		NavigationTimeout: DefaultNavigationTimeout,
		FrameMultiplier:   DefaultFrameMultiplier,
	}
}

type RenderGIFUseCase struct {
	launcher output.BrowserLauncher
	logger   output.LoggerPort
	cfg      RenderGIFConfig
}

func NewRenderGIFUseCase(launcher output.BrowserLauncher, logger output.LoggerPort, cfg RenderGIFConfig) *RenderGIFUseCase {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.FrameMultiplier <= 0 {
		cfg.FrameMultiplier = DefaultFrameMultiplier
	}
	if logger == nil {
		logger = output.NopLogger{}
	}
	return &RenderGIFUseCase{
		launcher: launcher,
		logger:   logger,
		cfg:      cfg,
	}
}

// Render drives one browser session through navigate, ready, trigger and
// download, then saves the artifact at req.OutputPath. Every failure after
// validation is a *entity.RenderError and the session is always closed
// before Render returns.
func (uc *RenderGIFUseCase) Render(ctx context.Context, req entity.RenderRequest) (*entity.RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render request: %w", err)
	}

	start := time.Now()
	log := uc.logger.WithFields(map[string]any{
		"render_id": uuid.NewString(),
		"url":       req.URL,
	})

	outputPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return nil, entity.NewRenderError(entity.KindPersist, "resolve output path", err)
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	log.Info("Launching browser", "width", req.Viewport.Width, "height", req.Viewport.Height)
	session, err := uc.launcher.Launch(ctx, req.Viewport)
	if err != nil {
		log.Error("Browser launch failed", "error", err)
		return nil, entity.NewRenderError(entity.KindSession, "launch browser", err)
	}
	defer func() {
		session.Close()
		log.Debug("Browser session released")
	}()

	var warnings []string
	if err := session.Navigate(ctx, req.URL, uc.cfg.NavigationTimeout); err != nil {
		log.Warn("Navigation failed, waiting for the app anyway", "error", err)
		warnings = append(warnings, fmt.Sprintf("%s: %v", entity.KindNavigation, err))
	}

	ctrl := session.Controller()
	if err := ctrl.WaitReady(ctx); err != nil {
		log.Error("App never became ready", "error", err)
		diagnostics := append(warnings, pageDiagnostics(ctx, session)...)
		return nil, entity.NewRenderError(timeoutOr(ctx, err, entity.KindReadiness), "wait for app", err, diagnostics...)
	}
	log.Debug("App ready")

	waiter, err := session.ArmDownload(ctx)
	if err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "arm download listener", err, warnings...)
	}

	if err := ctrl.SetFrameMultiplier(ctx, uc.cfg.FrameMultiplier); err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "set frame multiplier", err, warnings...)
	}
	if err := ctrl.StartRecording(ctx); err != nil {
		return nil, entity.NewRenderError(entity.KindSession, "start recording", err, warnings...)
	}
	log.Info("Recording started", "frameMultiplier", uc.cfg.FrameMultiplier)

	artifact, err := waiter.Wait(ctx)
	if err != nil {
		log.Error("Download did not arrive", "error", err)
		return nil, entity.NewRenderError(timeoutOr(ctx, err, entity.KindDownload), "wait for download", err, warnings...)
	}

	size, err := persistFile(artifact.Path, outputPath)
	if err != nil {
		log.Error("Persist failed", "error", err, "output", outputPath)
		return nil, entity.NewRenderError(entity.KindPersist, "save "+outputPath, err, warnings...)
	}

	elapsed := time.Since(start)
	log.Info("GIF saved", "output", outputPath, "bytes", size, "duration_ms", elapsed.Milliseconds())

	return &entity.RenderResult{
		Path:     outputPath,
		Size:     size,
		Elapsed:  elapsed,
		Warnings: warnings,
	}, nil
}

// timeoutOr returns kind when the wait ended because time ran out and
// SessionError when the browser itself failed.
func timeoutOr(ctx context.Context, err error, kind entity.ErrorKind) entity.ErrorKind {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return kind
	}
	return entity.KindSession
}

// pageDiagnostics grabs what the page is showing. It runs on a short
// context of its own because ctx has usually expired by now.
func pageDiagnostics(ctx context.Context, session output.BrowserSession) []string {
	diagCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), diagnosticsTimeout)
	defer cancel()

	text, err := session.PageText(diagCtx)
	if err != nil || text == "" {
		return nil
	}
	if runes := []rune(text); len(runes) > pageTextExcerpt {
		text = string(runes[:pageTextExcerpt]) + "..."
	}
	return []string{"page text: " + text}
}
