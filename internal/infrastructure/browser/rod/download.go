package rod

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var (
	ErrDownloadCanceled   = errors.New("download canceled by the browser")
	ErrDownloadIncomplete = errors.New("download did not complete")
)

var _ output.DownloadWaiter = (*downloadWaiter)(nil)

// downloadWaiter holds event subscriptions that were opened before the
// download could start. Depending on the Chrome build the download events
// arrive on the page session or on the browser connection, so both are
// watched and the first finished download wins.
type downloadWaiter struct {
	dir    string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	begin    *proto.PageDownloadWillBegin
	progress *proto.PageDownloadProgress
}

func armDownload(ctx context.Context, browserCtx *rod.Browser, page *rod.Page, dir string) (*downloadWaiter, error) {
	err := proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorAllowAndName,
		BrowserContextID: browserCtx.BrowserContextID,
		DownloadPath:     dir,
		EventsEnabled:    true,
	}.Call(browserCtx.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("set download behavior: %w", err)
	}

	waitCtx, cancel := context.WithCancel(ctx)
	w := &downloadWaiter{dir: dir, cancel: cancel, done: make(chan struct{})}

	waits := []func(){
		page.Context(waitCtx).EachEvent(w.onBegin, w.onProgress),
		browserCtx.Context(waitCtx).EachEvent(w.onBegin, w.onProgress),
	}
	for _, wait := range waits {
		go func(wait func()) {
			wait()
			w.once.Do(func() { close(w.done) })
		}(wait)
	}

	return w, nil
}

func (w *downloadWaiter) onBegin(e *proto.PageDownloadWillBegin) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.begin == nil {
		w.begin = e
	}
}

func (w *downloadWaiter) onProgress(e *proto.PageDownloadProgress) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.begin == nil || e.GUID != w.begin.GUID {
		return false
	}
	switch e.State {
	case proto.PageDownloadProgressStateCompleted, proto.PageDownloadProgressStateCanceled:
		w.progress = e
		return true
	}
	return false
}

// Wait blocks until the armed download finishes or ctx is done.
func (w *downloadWaiter) Wait(ctx context.Context) (*entity.DownloadArtifact, error) {
	defer w.cancel()

	select {
	case <-w.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for download: %w", ctx.Err())
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.progress == nil:
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("waiting for download: %w", err)
		}
		return nil, ErrDownloadIncomplete
	case w.progress.State == proto.PageDownloadProgressStateCanceled:
		return nil, ErrDownloadCanceled
	}

	return &entity.DownloadArtifact{
		GUID:              w.begin.GUID,
		SuggestedFilename: w.begin.SuggestedFilename,
		Path:              filepath.Join(w.dir, w.begin.GUID),
	}, nil
}
