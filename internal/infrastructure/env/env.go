package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"iblipper/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

const (
	KeyBaseURL         = "IBLIPPER_BASE_URL"
	KeyOutputDir       = "IBLIPPER_OUTPUT_DIR"
	KeyRenderTimeout   = "IBLIPPER_RENDER_TIMEOUT"
	KeyNavTimeout      = "IBLIPPER_NAV_TIMEOUT"
	KeyFrameMultiplier = "IBLIPPER_FRAME_MULTIPLIER"
	KeyHeadless        = "IBLIPPER_HEADLESS"
	KeyNoSandbox       = "IBLIPPER_NO_SANDBOX"
	KeyBrowserBin      = "IBLIPPER_BROWSER_BIN"
	KeyLogLevel        = "IBLIPPER_LOG_LEVEL"
	KeyLogDir          = "IBLIPPER_LOG_DIR"
	KeyHTTPAddr        = "IBLIPPER_HTTP_ADDR"
	KeyOpenRouterKey   = "OPENROUTER_API_KEY"
	KeyOpenRouterModel = "OPENROUTER_MODEL_NAME"
)

type EnvService struct{}

// NewEnvService loads .env and then .env.<APP_ENV> on top of it. Missing
// files are fine; the process environment always wins over .env.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go duration strings ("90s") and bare integers, which
// are read as milliseconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
