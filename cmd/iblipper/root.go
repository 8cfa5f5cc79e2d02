package main

import (
	"fmt"

	"iblipper/internal/di"
	"iblipper/internal/domain/entity"
	"iblipper/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// app carries state shared by the subcommands.
type app struct {
	cfg      di.Config
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "iblipper",
		Short: "Kinetic typography links, GIFs and snapshots from iBlipper",
		Long: `iblipper turns short messages into iBlipper animations.

Run 'iblipper serve' to expose the tools over MCP, or use the url, render
and snapshot commands directly. Settings are read from the environment and
from .env files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = di.ConfigFromEnv(env.NewEnvService())
			if a.logLevel != "" {
				a.cfg.Log.Level = a.logLevel
			}
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.urlCmd())
	root.AddCommand(a.renderCmd())
	root.AddCommand(a.snapshotCmd())
	root.AddCommand(a.agentCmd())
	return root
}

func (a *app) container() (*di.Container, error) {
	c, err := di.NewContainer(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return c, nil
}

// animationFlags are shared by url, render and snapshot.
type animationFlags struct {
	emotion string
	light   bool
	aspect  string
	width   int
	height  int
}

func (f *animationFlags) bind(cmd *cobra.Command, withSize bool) {
	cmd.Flags().StringVarP(&f.emotion, "emotion", "e", entity.DefaultEmotion.String(), "animation style")
	cmd.Flags().BoolVar(&f.light, "light", false, "light mode instead of dark")
	cmd.Flags().StringVar(&f.aspect, "aspect", "", `aspect ratio such as "16:9"`)
	if withSize {
		cmd.Flags().IntVar(&f.width, "width", 0, "viewport width in CSS pixels (default 480)")
		cmd.Flags().IntVar(&f.height, "height", 0, "viewport height in CSS pixels (default 480)")
	}
}

func (f *animationFlags) params(message string) entity.AnimationParams {
	p := entity.NewAnimationParams(message)
	p.Emotion = entity.Emotion(f.emotion)
	p.Dark = !f.light
	p.Aspect = f.aspect
	p.Width = f.width
	p.Height = f.height
	return p
}

func (f *animationFlags) viewport() entity.Viewport {
	vp := entity.DefaultViewport()
	if f.width > 0 {
		vp.Width = f.width
	}
	if f.height > 0 {
		vp.Height = f.height
	}
	return vp
}
