package output

import (
	"context"
	"time"

	"iblipper/internal/domain/entity"
)

// BrowserLauncher starts an isolated browser session sized to the viewport.
// The caller owns the returned session and must Close it.
type BrowserLauncher interface {
	Launch(ctx context.Context, viewport entity.Viewport) (BrowserSession, error)
}

// BrowserSession is one browser process, one browsing context and one page.
type BrowserSession interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Controller() AppController
	ArmDownload(ctx context.Context) (DownloadWaiter, error)
	Screenshot(ctx context.Context) ([]byte, error)
	PageText(ctx context.Context) (string, error)

	// Close releases the page, the context and the process. It is safe to
	// call more than once.
	Close()
}

// AppController is the command surface of the animation application running
// inside the page.
type AppController interface {
	WaitReady(ctx context.Context) error
	SetFrameMultiplier(ctx context.Context, n int) error
	StartRecording(ctx context.Context) error
}

// DownloadWaiter is armed before the action that produces a download so the
// event cannot be missed.
type DownloadWaiter interface {
	Wait(ctx context.Context) (*entity.DownloadArtifact, error)
}
