package service

import (
	"net/url"
	"strings"
	"testing"

	"iblipper/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://andyed.github.io/iblipper2025/"

func TestBuildURL_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		params func() entity.AnimationParams
		want   string
	}{
		{
			name:   "defaults",
			params: func() entity.AnimationParams { return entity.NewAnimationParams("Hello World") },
			want:   testBase + "#text=Hello+World&emotion=emphatic&dark=true&share=yes",
		},
		{
			name: "pwa",
			params: func() entity.AnimationParams {
				p := entity.NewAnimationParams("Hi")
				p.PWA = true
				return p
			},
			want: "web+iblipper:Hi",
		},
		{
			name: "gif with aspect",
			params: func() entity.AnimationParams {
				p := entity.NewAnimationParams("Go")
				p.GIF = true
				p.Aspect = "1:1"
				return p
			},
			want: testBase + "?export=gif#text=Go&emotion=emphatic&dark=true&aspect=1%3A1",
		},
		{
			name: "light mode with every optional",
			params: func() entity.AnimationParams {
				p := entity.NewAnimationParams("a b")
				p.Emotion = entity.EmotionHurry
				p.Dark = false
				p.Aspect = "16:9"
				p.Width = 640
				p.Height = 360
				p.ForceAspect = true
				return p
			},
			want: testBase + "#text=a+b&emotion=hurry&dark=false&share=yes&aspect=16%3A9&width=640&height=360&forceAspect=true",
		},
		{
			name: "unknown emotion passes through",
			params: func() entity.AnimationParams {
				p := entity.NewAnimationParams("x")
				p.Emotion = "grumpy"
				return p
			},
			want: testBase + "#text=x&emotion=grumpy&dark=true&share=yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(testBase, tt.params()))
		})
	}
}

func TestBuildURL_Deterministic(t *testing.T) {
	p := entity.NewAnimationParams("Same input, same output!")
	p.Aspect = "4:3"
	p.Width = 100

	first := BuildURL(testBase, p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildURL(testBase, p))
	}
}

func TestBuildURL_PWAIgnoresOtherOptions(t *testing.T) {
	p := entity.NewAnimationParams("Hello there")
	p.PWA = true
	p.Emotion = entity.EmotionPlayful
	p.Dark = false
	p.GIF = true
	p.Aspect = "1:1"
	p.Width = 300

	got := BuildURL(testBase, p)

	assert.True(t, strings.HasPrefix(got, PWAScheme))
	assert.Equal(t, "web+iblipper:Hello+there", got)
}

func TestBuildURL_ShareOnlyOutsideGIFMode(t *testing.T) {
	p := entity.NewAnimationParams("share")

	p.GIF = false
	assert.Contains(t, BuildURL(testBase, p), "&share=yes")

	p.GIF = true
	assert.NotContains(t, BuildURL(testBase, p), "share=yes")
}

func TestBuildURL_TextRoundTrips(t *testing.T) {
	messages := []string{
		"Hello World",
		"What?! 100% & more = fun #1",
		"tabs\tand\nnewlines",
		"ünïcødé — ok",
		"a+b=c",
	}

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			got := BuildURL(testBase, entity.NewAnimationParams(msg))

			_, fragment, found := strings.Cut(got, "#")
			require.True(t, found)
			values, err := url.ParseQuery(fragment)
			require.NoError(t, err)
			assert.Equal(t, msg, values.Get("text"))
		})
	}
}

func TestBuildURL_OmitsUnsetOptionals(t *testing.T) {
	got := BuildURL(testBase, entity.NewAnimationParams("plain"))

	for _, key := range []string{"aspect=", "width=", "height=", "forceAspect="} {
		assert.NotContains(t, got, key)
	}
}

func TestNewURLBuilder_DefaultBase(t *testing.T) {
	b := NewURLBuilder("")
	assert.Equal(t, DefaultBaseURL, b.Base)

	b = NewURLBuilder("http://localhost:5173/")
	assert.Equal(t, "http://localhost:5173/#text=x&emotion=emphatic&dark=true&share=yes",
		b.Build(entity.NewAnimationParams("x")))
}
