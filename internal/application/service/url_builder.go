package service

import (
	"net/url"
	"strconv"
	"strings"

	"iblipper/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://andyed.github.io/iblipper2025/"
	PWAScheme      = "web+iblipper:"
)

type URLBuilder struct {
	Base string
}

func NewURLBuilder(base string) URLBuilder {
	if base == "" {
		base = DefaultBaseURL
	}
	return URLBuilder{Base: base}
}

func (b URLBuilder) Build(p entity.AnimationParams) string {
	return BuildURL(b.Base, p)
}

// BuildURL maps p to either a PWA protocol string or an application URL
// whose parameters live in the fragment. Text and aspect use form encoding
// (space becomes '+'); the emotion token is passed through raw.
func BuildURL(base string, p entity.AnimationParams) string {
	text := url.QueryEscape(p.Message)
	if p.PWA {
		return PWAScheme + text
	}

	if p.GIF {
		base += "?export=gif"
	}

	params := []string{
		"text=" + text,
		"emotion=" + string(p.Emotion),
		"dark=" + strconv.FormatBool(p.Dark),
	}
	if !p.GIF {
		params = append(params, "share=yes")
	}
	if p.Aspect != "" {
		params = append(params, "aspect="+url.QueryEscape(p.Aspect))
	}
	if p.Width != 0 {
		params = append(params, "width="+strconv.Itoa(p.Width))
	}
	if p.Height != 0 {
		params = append(params, "height="+strconv.Itoa(p.Height))
	}
	if p.ForceAspect {
		params = append(params, "forceAspect=true")
	}

	return base + "#" + strings.Join(params, "&")
}
