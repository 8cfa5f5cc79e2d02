package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"
)

type fakeLauncher struct {
	session   *fakeSession
	launchErr error
	launches  int
	viewport  entity.Viewport
}

func (l *fakeLauncher) Launch(ctx context.Context, viewport entity.Viewport) (output.BrowserSession, error) {
	l.launches++
	l.viewport = viewport
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.session, nil
}

// fakeSession simulates the page. A nil artifact means the download never
// arrives; neverReady means the store handle never shows up.
type fakeSession struct {
	mu sync.Mutex

	navErr     error
	neverReady bool
	readyErr   error
	triggerErr error
	artifact   []byte
	artifactAt string
	screenshot []byte
	pageText   string

	events     []string
	multiplier int
	closed     bool
	closeCalls int
}

func (s *fakeSession) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *fakeSession) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *fakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.record("navigate")
	return s.navErr
}

func (s *fakeSession) Controller() output.AppController {
	return &fakeController{session: s}
}

func (s *fakeSession) ArmDownload(ctx context.Context) (output.DownloadWaiter, error) {
	s.record("arm")
	return &fakeWaiter{session: s}, nil
}

func (s *fakeSession) Screenshot(ctx context.Context) ([]byte, error) {
	s.record("screenshot")
	if s.screenshot == nil {
		return nil, errors.New("no screenshot")
	}
	return s.screenshot, nil
}

func (s *fakeSession) PageText(ctx context.Context) (string, error) {
	return s.pageText, nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.closeCalls++
}

func (s *fakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeController struct {
	session *fakeSession
}

func (c *fakeController) WaitReady(ctx context.Context) error {
	c.session.record("ready")
	if c.session.readyErr != nil {
		return c.session.readyErr
	}
	if c.session.neverReady {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (c *fakeController) SetFrameMultiplier(ctx context.Context, n int) error {
	c.session.record("multiplier")
	c.session.mu.Lock()
	c.session.multiplier = n
	c.session.mu.Unlock()
	return c.session.triggerErr
}

func (c *fakeController) StartRecording(ctx context.Context) error {
	c.session.record("start")
	return c.session.triggerErr
}

type fakeWaiter struct {
	session *fakeSession
}

func (w *fakeWaiter) Wait(ctx context.Context) (*entity.DownloadArtifact, error) {
	w.session.record("wait")
	if w.session.artifact == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := os.WriteFile(w.session.artifactAt, w.session.artifact, 0o644); err != nil {
		return nil, err
	}
	return &entity.DownloadArtifact{
		GUID:              "guid-1",
		SuggestedFilename: "iblipper.gif",
		Path:              w.session.artifactAt,
	}, nil
}

func newFakeSession(dir string) *fakeSession {
	return &fakeSession{
		artifact:   []byte("GIF89a-fake-bytes"),
		artifactAt: filepath.Join(dir, "download-guid-1"),
	}
}
