package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"iblipper/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

var _ output.AppController = (*storeController)(nil)

// StoreGlobal is the window property under which the animation application
// publishes its render store once it has initialised.
const StoreGlobal = "useRSVPStore"

var ErrStoreIncomplete = errors.New("render store is missing required members")

const (
	jsStoreReady = `() => window.` + StoreGlobal + ` !== undefined`

	jsStoreMembers = `() => {
		const s = window.` + StoreGlobal + `.getState();
		return {
			setGifFrameMultiplier: typeof s.setGifFrameMultiplier === "function",
			startGifRecording: typeof s.startGifRecording === "function",
		};
	}`

	jsSetFrameMultiplier = `(n) => { window.` + StoreGlobal + `.getState().setGifFrameMultiplier(n); }`

	// startGifRecording may return a promise that settles only after the
	// whole export, so the wrapper must not return it.
	jsStartRecording = `() => { window.` + StoreGlobal + `.getState().startGifRecording(); }`
)

type storeController struct {
	page   *rod.Page
	logger output.LoggerPort
}

// WaitReady polls until the store global exists and then checks that it
// exposes both commands.
func (c *storeController) WaitReady(ctx context.Context) error {
	page := c.page.Context(ctx)
	if err := page.Wait(rod.Eval(jsStoreReady)); err != nil {
		return fmt.Errorf("waiting for window.%s: %w", StoreGlobal, err)
	}

	res, err := page.Eval(jsStoreMembers)
	if err != nil {
		return fmt.Errorf("inspect render store: %w", err)
	}
	if missing := missingMembers(res.Value); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrStoreIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

func (c *storeController) SetFrameMultiplier(ctx context.Context, n int) error {
	if _, err := c.page.Context(ctx).Eval(jsSetFrameMultiplier, n); err != nil {
		return fmt.Errorf("setGifFrameMultiplier(%d): %w", n, err)
	}
	c.logger.Debug("Frame multiplier set", "value", n)
	return nil
}

func (c *storeController) StartRecording(ctx context.Context) error {
	if _, err := c.page.Context(ctx).Eval(jsStartRecording); err != nil {
		return fmt.Errorf("startGifRecording: %w", err)
	}
	return nil
}

func missingMembers(members gson.JSON) []string {
	var missing []string
	for _, name := range []string{"setGifFrameMultiplier", "startGifRecording"} {
		if !members.Get(name).Bool() {
			missing = append(missing, name)
		}
	}
	return missing
}
