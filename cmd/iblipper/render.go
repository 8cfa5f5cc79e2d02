package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"iblipper/internal/application/usecase"
	"iblipper/internal/domain/entity"

	"github.com/spf13/cobra"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		flags      animationFlags
		outputPath string
		timeout    time.Duration
		multiplier int
	)

	cmd := &cobra.Command{
		Use:   "render <message>",
		Short: "Render the animation to a GIF file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if multiplier > 0 {
				a.cfg.FrameMultiplier = multiplier
			}
			if timeout > 0 {
				a.cfg.RenderTimeout = timeout
			}

			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			p := flags.params(strings.Join(args, " "))
			p.GIF = true

			result, err := c.Renderer.Render(cmd.Context(), entity.RenderRequest{
				URL:        c.URLBuilder.Build(p),
				OutputPath: withExt(outputPath, ".gif"),
				Viewport:   flags.viewport(),
				Timeout:    a.cfg.RenderTimeout,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "GIF", result)
			return nil
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (.gif is appended if missing)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall render budget (default from IBLIPPER_RENDER_TIMEOUT)")
	cmd.Flags().IntVar(&multiplier, "frame-multiplier", 0, "frame multiplier passed to the app (default from IBLIPPER_FRAME_MULTIPLIER)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var (
		flags      animationFlags
		outputPath string
		delay      time.Duration
		maxWidth   int
	)

	cmd := &cobra.Command{
		Use:   "snapshot <message>",
		Short: "Capture a still frame of the animation as PNG or JPEG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			format := entity.ImageFormatPNG
			switch strings.ToLower(filepath.Ext(outputPath)) {
			case ".jpg", ".jpeg":
				format = entity.ImageFormatJPEG
			default:
				outputPath = withExt(outputPath, ".png")
			}

			result, err := c.Snapshots.Capture(cmd.Context(), entity.SnapshotRequest{
				URL:        c.URLBuilder.Build(flags.params(strings.Join(args, " "))),
				OutputPath: outputPath,
				Viewport:   flags.viewport(),
				Timeout:    a.cfg.RenderTimeout,
				Delay:      delay,
				MaxWidth:   maxWidth,
				Format:     format,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "Snapshot", result)
			return nil
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (.png, .jpg or .jpeg)")
	cmd.Flags().DurationVar(&delay, "delay", usecase.DefaultSnapshotDelay, "how long the animation plays before capture")
	cmd.Flags().IntVar(&maxWidth, "max-width", usecase.DefaultSnapshotMaxWidth, "downscale wider captures to this width")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

func printResult(cmd *cobra.Command, what string, result *entity.RenderResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s saved to %s (%d bytes in %s)\n", what, result.Path, result.Size, result.Elapsed.Round(time.Millisecond))
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
