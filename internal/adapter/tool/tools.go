package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"iblipper/internal/application/port/output"
	"iblipper/internal/application/service"
	"iblipper/internal/domain/entity"
)

var (
	_ output.ToolPort = (*GenerateURLTool)(nil)
	_ output.ToolPort = (*RenderGIFTool)(nil)
	_ output.ToolPort = (*SnapshotTool)(nil)
)

var (
	ErrMessageRequired  = errors.New("message is required")
	ErrFilenameRequired = errors.New("filename is required")
)

type GIFRenderer interface {
	Render(ctx context.Context, req entity.RenderRequest) (*entity.RenderResult, error)
}

type SnapshotCapturer interface {
	Capture(ctx context.Context, req entity.SnapshotRequest) (*entity.RenderResult, error)
}

// RenderConfig holds what the tools add on top of the caller's arguments.
type RenderConfig struct {
	OutputDir string
	Timeout   time.Duration
}

func emotionDescription() string {
	names := make([]string, 0, len(entity.KnownEmotions))
	for _, e := range entity.KnownEmotions {
		names = append(names, e.String())
	}
	return "Animation style: " + strings.Join(names, ", ") + ". Defaults to emphatic."
}

func animationProperties() map[string]interface{} {
	return map[string]interface{}{
		"message": map[string]interface{}{
			"type":        "string",
			"description": "The text to animate. Keep it short (1-5 words) for maximum impact.",
		},
		"emotion": map[string]interface{}{
			"type":        "string",
			"description": emotionDescription(),
		},
		"dark": map[string]interface{}{
			"type":        "boolean",
			"description": "Dark mode (default true). Dark mode is recommended.",
		},
		"aspect": map[string]interface{}{
			"type":        "string",
			"description": `Aspect ratio such as "16:9" or "1:1".`,
		},
	}
}

// animationArgs is shared by every tool. Dark is a pointer because it
// defaults to true.
type animationArgs struct {
	Message string `json:"message"`
	Emotion string `json:"emotion"`
	Dark    *bool  `json:"dark"`
	Aspect  string `json:"aspect"`
}

func (a animationArgs) params() (entity.AnimationParams, error) {
	if strings.TrimSpace(a.Message) == "" {
		return entity.AnimationParams{}, ErrMessageRequired
	}
	p := entity.NewAnimationParams(a.Message)
	if a.Emotion != "" {
		p.Emotion = entity.Emotion(a.Emotion)
	}
	if a.Dark != nil {
		p.Dark = *a.Dark
	}
	p.Aspect = a.Aspect
	return p, nil
}

type GenerateURLTool struct {
	builder service.URLBuilder
	logger  output.LoggerPort
}

func NewGenerateURLTool(builder service.URLBuilder, logger output.LoggerPort) *GenerateURLTool {
	return &GenerateURLTool{builder: builder, logger: logger}
}

func (t *GenerateURLTool) Name() entity.ToolName { return entity.ToolGenerateURL }
func (t *GenerateURLTool) Description() string {
	return "Generate a kinetic typography animation URL for a message. " +
		"Returns a link to the web app, a web+iblipper: protocol string for the installed PWA, or a GIF export link."
}
func (t *GenerateURLTool) Parameters() map[string]interface{} {
	props := animationProperties()
	props["pwa"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return a web+iblipper: protocol string that opens the installed PWA. Only use this if the user has the PWA.",
	}
	props["gif"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return a URL that generates and downloads a GIF of the animation.",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"message"},
	}
}

func (t *GenerateURLTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		animationArgs
		PWA bool `json:"pwa"`
		GIF bool `json:"gif"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid input format: %w", err)
	}
	p, err := input.params()
	if err != nil {
		return "", err
	}
	p.PWA = input.PWA
	p.GIF = input.GIF

	url := t.builder.Build(p)
	t.logger.Debug("URL generated", "url", url)
	return url, nil
}

type RenderGIFTool struct {
	builder  service.URLBuilder
	renderer GIFRenderer
	logger   output.LoggerPort
	cfg      RenderConfig
}

func NewRenderGIFTool(builder service.URLBuilder, renderer GIFRenderer, logger output.LoggerPort, cfg RenderConfig) *RenderGIFTool {
	return &RenderGIFTool{builder: builder, renderer: renderer, logger: logger, cfg: cfg}
}

func (t *RenderGIFTool) Name() entity.ToolName { return entity.ToolRenderGIF }
func (t *RenderGIFTool) Description() string {
	return "Render the animation to a GIF file with a headless browser and return the absolute path of the saved file. " +
		"Rendering takes up to a few minutes."
}
func (t *RenderGIFTool) Parameters() map[string]interface{} {
	props := animationProperties()
	props["filename"] = map[string]interface{}{
		"type":        "string",
		"description": "Output file. Relative paths are placed in the configured output directory; .gif is appended if missing.",
	}
	props["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Viewport width in CSS pixels (default 480).",
	}
	props["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Viewport height in CSS pixels (default 480).",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"message", "filename"},
	}
}

// Execute returns a Go error only for malformed arguments. Render failures
// come back as a descriptive result string.
func (t *RenderGIFTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		animationArgs
		Filename string `json:"filename"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid input format: %w", err)
	}
	p, err := input.params()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Filename) == "" {
		return "", ErrFilenameRequired
	}
	p.GIF = true
	p.Width = input.Width
	p.Height = input.Height

	req := entity.RenderRequest{
		URL:        t.builder.Build(p),
		OutputPath: resolveOutput(t.cfg.OutputDir, input.Filename, ".gif"),
		Viewport:   viewportFor(input.Width, input.Height),
		Timeout:    t.cfg.Timeout,
	}

	result, err := t.renderer.Render(ctx, req)
	if err != nil {
		t.logger.Error("GIF render failed", "error", err)
		return describeFailure("GIF", err), nil
	}
	return fmt.Sprintf("GIF saved to %s", result.Path), nil
}

type SnapshotTool struct {
	builder  service.URLBuilder
	capturer SnapshotCapturer
	logger   output.LoggerPort
	cfg      RenderConfig
	maxWidth int
}

func NewSnapshotTool(builder service.URLBuilder, capturer SnapshotCapturer, logger output.LoggerPort, cfg RenderConfig, maxWidth int) *SnapshotTool {
	return &SnapshotTool{builder: builder, capturer: capturer, logger: logger, cfg: cfg, maxWidth: maxWidth}
}

func (t *SnapshotTool) Name() entity.ToolName { return entity.ToolRenderSnapshot }
func (t *SnapshotTool) Description() string {
	return "Capture a still poster frame of the animation as a PNG or JPEG image and return the absolute path of the saved file."
}
func (t *SnapshotTool) Parameters() map[string]interface{} {
	props := animationProperties()
	props["filename"] = map[string]interface{}{
		"type":        "string",
		"description": "Output file (.png, .jpg or .jpeg). Relative paths are placed in the configured output directory; .png is appended if no image extension is given.",
	}
	props["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Viewport width in CSS pixels (default 480).",
	}
	props["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Viewport height in CSS pixels (default 480).",
	}
	props["delay_ms"] = map[string]interface{}{
		"type":        "integer",
		"description": "How long to let the animation play before capturing, in milliseconds (default 1500).",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"message", "filename"},
	}
}

func (t *SnapshotTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		animationArgs
		Filename string `json:"filename"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		DelayMS  *int   `json:"delay_ms"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid input format: %w", err)
	}
	p, err := input.params()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input.Filename) == "" {
		return "", ErrFilenameRequired
	}
	p.Width = input.Width
	p.Height = input.Height

	delay := 1500 * time.Millisecond
	if input.DelayMS != nil && *input.DelayMS >= 0 {
		delay = time.Duration(*input.DelayMS) * time.Millisecond
	}

	outputPath, format := snapshotOutput(t.cfg.OutputDir, input.Filename)
	req := entity.SnapshotRequest{
		URL:        t.builder.Build(p),
		OutputPath: outputPath,
		Viewport:   viewportFor(input.Width, input.Height),
		Timeout:    t.cfg.Timeout,
		Delay:      delay,
		MaxWidth:   t.maxWidth,
		Format:     format,
	}

	result, err := t.capturer.Capture(ctx, req)
	if err != nil {
		t.logger.Error("Snapshot failed", "error", err)
		return describeFailure("snapshot", err), nil
	}
	return fmt.Sprintf("Snapshot saved to %s", result.Path), nil
}

func viewportFor(width, height int) entity.Viewport {
	vp := entity.DefaultViewport()
	if width > 0 {
		vp.Width = width
	}
	if height > 0 {
		vp.Height = height
	}
	return vp
}

// resolveOutput anchors relative names in dir and appends ext when the name
// has a different extension.
func resolveOutput(dir, filename, ext string) string {
	if !strings.EqualFold(filepath.Ext(filename), ext) {
		filename += ext
	}
	if !filepath.IsAbs(filename) && dir != "" {
		filename = filepath.Join(dir, filename)
	}
	if abs, err := filepath.Abs(filename); err == nil {
		return abs
	}
	return filename
}

func snapshotOutput(dir, filename string) (string, entity.ImageFormat) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return resolveOutput(dir, filename, filepath.Ext(filename)), entity.ImageFormatJPEG
	case ".png":
		return resolveOutput(dir, filename, ".png"), entity.ImageFormatPNG
	}
	return resolveOutput(dir, filename, ".png"), entity.ImageFormatPNG
}

func describeFailure(what string, err error) string {
	if kind, ok := entity.KindOf(err); ok {
		return fmt.Sprintf("Error rendering %s (%s): %s", what, kind, strings.TrimPrefix(err.Error(), kind.String()+": "))
	}
	return fmt.Sprintf("Error rendering %s: %v", what, err)
}
