package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_TypedGetters(t *testing.T) {
	e := &EnvService{}

	t.Setenv("IBLIPPER_TEST_BOOL", "false")
	t.Setenv("IBLIPPER_TEST_BAD_BOOL", "nope")
	t.Setenv("IBLIPPER_TEST_INT", "25")
	t.Setenv("IBLIPPER_TEST_DUR", "90s")
	t.Setenv("IBLIPPER_TEST_MS", "1500")
	t.Setenv("IBLIPPER_TEST_BAD_DUR", "soon")

	assert.False(t, e.GetBool("IBLIPPER_TEST_BOOL", true))
	assert.True(t, e.GetBool("IBLIPPER_TEST_BAD_BOOL", true))
	assert.True(t, e.GetBool("IBLIPPER_TEST_UNSET", true))

	assert.Equal(t, 25, e.GetInt("IBLIPPER_TEST_INT", 15))
	assert.Equal(t, 15, e.GetInt("IBLIPPER_TEST_UNSET", 15))

	assert.Equal(t, 90*time.Second, e.GetDuration("IBLIPPER_TEST_DUR", time.Second))
	assert.Equal(t, 1500*time.Millisecond, e.GetDuration("IBLIPPER_TEST_MS", time.Second))
	assert.Equal(t, time.Second, e.GetDuration("IBLIPPER_TEST_BAD_DUR", time.Second))

	assert.Equal(t, "fallback", e.GetWithDefault("IBLIPPER_TEST_UNSET", "fallback"))
}

func TestNewEnvService_LoadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("IBLIPPER_TEST_FROM_FILE=file\nIBLIPPER_TEST_PRESET=file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"),
		[]byte("IBLIPPER_TEST_FROM_ENV_FILE=envfile\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "test")
	t.Setenv("IBLIPPER_TEST_PRESET", "process")
	t.Setenv("IBLIPPER_TEST_FROM_FILE", "")
	os.Unsetenv("IBLIPPER_TEST_FROM_FILE")
	t.Setenv("IBLIPPER_TEST_FROM_ENV_FILE", "")
	os.Unsetenv("IBLIPPER_TEST_FROM_ENV_FILE")

	e := NewEnvService()

	assert.Equal(t, "file", e.Get("IBLIPPER_TEST_FROM_FILE"))
	assert.Equal(t, "envfile", e.Get("IBLIPPER_TEST_FROM_ENV_FILE"))
	assert.Equal(t, "process", e.Get("IBLIPPER_TEST_PRESET"))
}
