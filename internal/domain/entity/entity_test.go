package entity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError_Message(t *testing.T) {
	err := NewRenderError(KindReadiness, "wait for app", context.DeadlineExceeded, "url=https://x.test", "page: Loading")
	assert.Equal(t, "ReadinessTimeout: wait for app: context deadline exceeded (url=https://x.test; page: Loading)", err.Error())

	bare := NewRenderError(KindSession, "launch browser", nil)
	assert.Equal(t, "SessionError: launch browser", bare.Error())
}

func TestRenderError_Chain(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("render: %w", NewRenderError(KindPersist, "save gif", cause))

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindPersist, kind)
	assert.ErrorIs(t, wrapped, cause)

	var re *RenderError
	require.ErrorAs(t, wrapped, &re)
	assert.Equal(t, "save gif", re.Op)

	_, ok = KindOf(cause)
	assert.False(t, ok)
	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestRenderRequest_Validate(t *testing.T) {
	valid := RenderRequest{
		URL:        "https://x.test/?export=gif#text=hi",
		OutputPath: "/tmp/hi.gif",
		Viewport:   DefaultViewport(),
		Timeout:    time.Minute,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *RenderRequest)
		want   error
	}{
		{"empty url", func(r *RenderRequest) { r.URL = "" }, ErrEmptyURL},
		{"empty output", func(r *RenderRequest) { r.OutputPath = "" }, ErrEmptyOutputPath},
		{"zero width", func(r *RenderRequest) { r.Viewport.Width = 0 }, ErrInvalidViewport},
		{"negative height", func(r *RenderRequest) { r.Viewport.Height = -1 }, ErrInvalidViewport},
		{"zero timeout", func(r *RenderRequest) { r.Timeout = 0 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tt.want)
		})
	}
}

func TestSnapshotRequest_Validate(t *testing.T) {
	req := SnapshotRequest{URL: "https://x.test", OutputPath: "a.png", Viewport: DefaultViewport(), Timeout: time.Second}
	assert.NoError(t, req.Validate())

	req.Timeout = 0
	assert.ErrorIs(t, req.Validate(), ErrInvalidTimeout)
}

func TestDefaults(t *testing.T) {
	vp := DefaultViewport()
	assert.Equal(t, 480, vp.Width)
	assert.Equal(t, 480, vp.Height)
	assert.Equal(t, 2.0, vp.DeviceScaleFactor)

	p := NewAnimationParams("hi")
	assert.Equal(t, EmotionEmphatic, p.Emotion)
	assert.True(t, p.Dark)
	assert.False(t, p.GIF)
	assert.Contains(t, KnownEmotions, DefaultEmotion)
}
