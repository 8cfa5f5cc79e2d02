package di

import (
	"errors"
	"fmt"
	"time"

	"iblipper/internal/adapter/tool"
	"iblipper/internal/application/port/input"
	"iblipper/internal/application/port/output"
	"iblipper/internal/application/service"
	"iblipper/internal/application/usecase"
	"iblipper/internal/infrastructure/browser/rod"
	"iblipper/internal/infrastructure/env"
	"iblipper/internal/infrastructure/llm/openrouter"
	"iblipper/internal/infrastructure/logger"
	"iblipper/internal/infrastructure/prompts"
	"iblipper/internal/usecase/executor"
)

var ErrAgentNotConfigured = errors.New("agent mode needs OPENROUTER_API_KEY and OPENROUTER_MODEL_NAME")

type Container struct {
	Config     Config
	Logger     output.LoggerPort
	Launcher   output.BrowserLauncher
	URLBuilder service.URLBuilder
	Renderer   *usecase.RenderGIFUseCase
	Snapshots  *usecase.SnapshotUseCase
	Tools      output.ToolRegistry
}

type Config struct {
	BaseURL           string
	OutputDir         string
	RenderTimeout     time.Duration
	NavigationTimeout time.Duration
	FrameMultiplier   int
	SnapshotMaxWidth  int
	HTTPAddr          string
	Browser           rod.BrowserConfig
	Log               logger.Config
	OpenRouterAPIKey  string
	OpenRouterModel   string
}

// ConfigFromEnv reads every setting from cfg, falling back to the package
// defaults for anything unset.
func ConfigFromEnv(cfg output.ConfigPort) Config {
	browser := rod.DefaultConfig()
	browser.Headless = cfg.GetBool(env.KeyHeadless, browser.Headless)
	browser.NoSandbox = cfg.GetBool(env.KeyNoSandbox, browser.NoSandbox)
	browser.Bin = cfg.Get(env.KeyBrowserBin)

	log := logger.DefaultConfig()
	log.Level = cfg.GetWithDefault(env.KeyLogLevel, log.Level)
	log.Dir = cfg.GetWithDefault(env.KeyLogDir, log.Dir)

	return Config{
		BaseURL:           cfg.GetWithDefault(env.KeyBaseURL, service.DefaultBaseURL),
		OutputDir:         cfg.GetWithDefault(env.KeyOutputDir, "."),
		RenderTimeout:     cfg.GetDuration(env.KeyRenderTimeout, usecase.DefaultRenderTimeout),
		NavigationTimeout: cfg.GetDuration(env.KeyNavTimeout, usecase.DefaultNavigationTimeout),
		FrameMultiplier:   cfg.GetInt(env.KeyFrameMultiplier, usecase.DefaultFrameMultiplier),
		SnapshotMaxWidth:  usecase.DefaultSnapshotMaxWidth,
		HTTPAddr:          cfg.GetWithDefault(env.KeyHTTPAddr, "127.0.0.1:8080"),
		Browser:           browser,
		Log:               log,
		OpenRouterAPIKey:  cfg.Get(env.KeyOpenRouterKey),
		OpenRouterModel:   cfg.Get(env.KeyOpenRouterModel),
	}
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	launcher := rod.NewLauncher(cfg.Browser, log.WithField("component", "browser"))
	builder := service.NewURLBuilder(cfg.BaseURL)

	renderer := usecase.NewRenderGIFUseCase(launcher, log.WithField("component", "render_gif"), usecase.RenderGIFConfig{
		NavigationTimeout: cfg.NavigationTimeout,
		FrameMultiplier:   cfg.FrameMultiplier,
	})
	snapshots := usecase.NewSnapshotUseCase(launcher, log.WithField("component", "snapshot"), cfg.NavigationTimeout)

	tools := service.NewToolRegistry()
	renderCfg := tool.RenderConfig{OutputDir: cfg.OutputDir, Timeout: cfg.RenderTimeout}
	tools.Register(tool.NewGenerateURLTool(builder, log))
	tools.Register(tool.NewRenderGIFTool(builder, renderer, log, renderCfg))
	tools.Register(tool.NewSnapshotTool(builder, snapshots, log, renderCfg, cfg.SnapshotMaxWidth))

	log.Debug("Container ready",
		"base_url", builder.Base,
		"output_dir", cfg.OutputDir,
		"headless", cfg.Browser.Headless,
		"tools", len(tools.All()),
	)

	return &Container{
		Config:     cfg,
		Logger:     log,
		Launcher:   launcher,
		URLBuilder: builder,
		Renderer:   renderer,
		Snapshots:  snapshots,
		Tools:      tools,
	}, nil
}

// Agent builds the tool-calling executor. It is only needed by the agent
// command, so missing OpenRouter settings are reported here rather than at
// startup. progress may be nil.
func (c *Container) Agent(progress output.ProgressPort) (input.TaskExecutor, error) {
	if c.Config.OpenRouterAPIKey == "" || c.Config.OpenRouterModel == "" {
		return nil, ErrAgentNotConfigured
	}

	llmCfg := openrouter.DefaultConfig(c.Config.OpenRouterAPIKey, c.Config.OpenRouterModel)
	llmCfg.Logger = c.Logger.WithField("component", "llm")
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.SystemTemplate, c.Tools)
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}

	return executor.New(llm, c.Tools, c.Logger.WithField("component", "agent"), systemPrompt).
		WithProgress(progress), nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
