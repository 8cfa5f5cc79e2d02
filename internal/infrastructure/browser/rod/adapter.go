package rod

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ output.BrowserLauncher = (*Launcher)(nil)
	_ output.BrowserSession  = (*Session)(nil)
)

const (
	closeTimeout   = 5 * time.Second
	pageTextMaxLen = 2000
)

type BrowserConfig struct {
	Headless  bool
	NoSandbox bool
	// Bin is the browser executable. Empty lets rod find or download one.
	Bin string
	// LogConsole forwards page console messages to the logger at debug level.
	LogConsole bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		NoSandbox:  false,
		LogConsole: true,
	}
}

// Launcher starts one fresh browser process per session.
type Launcher struct {
	cfg    BrowserConfig
	logger output.LoggerPort
}

func NewLauncher(cfg BrowserConfig, logger output.LoggerPort) *Launcher {
	if logger == nil {
		logger = output.NopLogger{}
	}
	return &Launcher{cfg: cfg, logger: logger}
}

// Session owns a browser process, an incognito context and one page in it.
type Session struct {
	launcher    *launcher.Launcher
	browser     *rod.Browser
	context     *rod.Browser
	page        *rod.Page
	controlURL  string
	downloadDir string
	logger      output.LoggerPort

	cancel    context.CancelFunc
	closeOnce sync.Once
	closed    atomic.Bool
}

func (l *Launcher) Launch(ctx context.Context, viewport entity.Viewport) (output.BrowserSession, error) {
	downloadDir, err := os.MkdirTemp("", "iblipper-download-*")
	if err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		downloadDir: downloadDir,
		logger:      l.logger,
		cancel:      cancel,
	}

	// The process lives on sessCtx so that it survives ctx expiring; ctx only
	// bounds the launch itself.
	stopLaunchBound := context.AfterFunc(ctx, cancel)
	ln := launcher.New().
		Context(sessCtx).
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("mute-audio").
		Set("hide-scrollbars")
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}
	s.launcher = ln

	controlURL, err := ln.Launch()
	if !stopLaunchBound() || err != nil {
		s.Close()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	s.controlURL = controlURL

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	s.browser = browser

	incognito, err := browser.Context(ctx).Incognito()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	s.context = incognito.Context(sessCtx)

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page.Context(sessCtx)

	scale := viewport.DeviceScaleFactor
	if scale <= 0 {
		scale = entity.DefaultDeviceScaleFactor
	}
	if err := s.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if l.cfg.LogConsole {
		go s.page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
			s.logger.Debug("Page console", "type", e.Type, "text", consoleText(e.Args))
		})()
	}

	l.logger.Debug("Browser session ready", "controlURL", controlURL, "downloadDir", downloadDir)
	return s, nil
}

// Navigate loads url and waits for the load event. The error is returned to
// the caller as is; a failed load may still leave a usable page.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	page := s.page.Context(ctx)
	if timeout > 0 {
		page = page.Timeout(timeout)
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load failed: %w", err)
	}
	return nil
}

func (s *Session) Controller() output.AppController {
	return &storeController{page: s.page, logger: s.logger}
}

func (s *Session) ArmDownload(ctx context.Context) (output.DownloadWaiter, error) {
	w, err := armDownload(ctx, s.context, s.page, s.downloadDir)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (s *Session) PageText(ctx context.Context) (string, error) {
	doc, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return ExtractText(doc, pageTextMaxLen), nil
}

// ControlURL is the DevTools endpoint of the session's browser process.
func (s *Session) ControlURL() string {
	return s.controlURL
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.browser != nil {
			_ = s.browser.Timeout(closeTimeout).Close()
		}
		// Cleanup blocks until the process exits, so only call it once one
		// was actually started.
		if s.launcher != nil && s.launcher.PID() != 0 {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		if s.downloadDir != "" {
			_ = os.RemoveAll(s.downloadDir)
		}
		s.closed.Store(true)
	})
}

func consoleText(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case arg.Description != "":
			parts = append(parts, arg.Description)
		case arg.Value.Nil():
			parts = append(parts, string(arg.Type))
		default:
			parts = append(parts, arg.Value.String())
		}
	}
	return strings.Join(parts, " ")
}
