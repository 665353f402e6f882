package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/distribution"
	"github.com/HenrYxZ/experiments/pkg/loaders"
	"github.com/HenrYxZ/experiments/pkg/renderer"
	"github.com/HenrYxZ/experiments/pkg/scene"
	"github.com/HenrYxZ/experiments/pkg/timing"
)

func main() {
	if err := newRootCommand(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// renderOptions holds the flags of the render command
type renderOptions struct {
	scenePath string
	width     int
	height    int
	aaH       int
	aaV       int
	seed      int64
	workers   int
	output    string
	verbose   bool
}

func newLogger(w io.Writer, verbose bool) core.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return core.NewSlogLogger(slog.New(handler), slog.LevelInfo)
}

func newRootCommand(logOutput io.Writer) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "nrt",
		Short: "Render a single sphere lit by a directional light",
		Long: "nrt renders one sphere under one directional light with jittered\n" +
			"anti-aliasing. Without --scene the built-in scene is used.\n" +
			"Output is saved to output/render_<timestamp>.png unless --out is given.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, newLogger(logOutput, opts.verbose))
		},
	}

	defaults := renderer.DefaultSamplingConfig()
	flags := cmd.Flags()
	flags.StringVar(&opts.scenePath, "scene", "", "scene file (.yaml, .yml, .toml or .json) or a scene name under scenes/")
	flags.IntVar(&opts.width, "width", scene.DefaultWidth, "image width in pixels")
	flags.IntVar(&opts.height, "height", scene.DefaultHeight, "image height in pixels")
	flags.IntVar(&opts.aaH, "aa-h", defaults.HorizontalSamples, "horizontal anti-aliasing samples per pixel")
	flags.IntVar(&opts.aaV, "aa-v", defaults.VerticalSamples, "vertical anti-aliasing samples per pixel")
	flags.Int64Var(&opts.seed, "seed", defaults.Seed, "base random seed")
	flags.IntVar(&opts.workers, "workers", defaults.NumWorkers, "parallel workers (0 = CPU count)")
	flags.StringVarP(&opts.output, "out", "o", "", "output image (.png, .jpg, .gif, .bmp, .tiff)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newDistributionCommand(logOutput, opts))
	cmd.AddCommand(newSceneCommand())
	cmd.AddCommand(newScenesCommand())
	return cmd
}

// loadScene returns the scene description for a path or a name under the
// scenes directory, or the default scene when name is empty
func loadScene(name string) (*loaders.SceneFile, error) {
	if name == "" {
		return loaders.FromScene(scene.NewDefaultScene(), scene.DefaultWidth, scene.DefaultHeight, renderer.DefaultSamplingConfig()), nil
	}
	path, err := loaders.ResolveScenePath(name, loaders.DefaultScenesDir)
	if err != nil {
		return nil, err
	}
	return loaders.LoadScene(path)
}

func runRender(cmd *cobra.Command, opts *renderOptions, logger core.Logger) error {
	sceneFile, err := loadScene(opts.scenePath)
	if err != nil {
		return err
	}
	s, err := sceneFile.Scene()
	if err != nil {
		return err
	}

	// Flags given explicitly override the scene file
	width, height := sceneFile.Size(opts.width, opts.height)
	sampling := sceneFile.Sampling(renderer.DefaultSamplingConfig())
	flags := cmd.Flags()
	if flags.Changed("width") {
		width = opts.width
	}
	if flags.Changed("height") {
		height = opts.height
	}
	if flags.Changed("aa-h") {
		sampling.HorizontalSamples = opts.aaH
	}
	if flags.Changed("aa-v") {
		sampling.VerticalSamples = opts.aaV
	}
	if flags.Changed("seed") {
		sampling.Seed = opts.seed
	}
	if flags.Changed("workers") {
		sampling.NumWorkers = opts.workers
	}

	output := opts.output
	if output == "" {
		timestamp := time.Now().Format("20060102_150405")
		output = filepath.Join("output", fmt.Sprintf("render_%s.png", timestamp))
	}

	rt := renderer.NewRaytracer(s, width, height)
	rt.SetSamplingConfig(sampling)
	rt.SetLogger(logger)

	var fb *renderer.FrameBuffer
	_, err = timing.Measure(logger, func() error {
		var renderErr error
		fb, renderErr = rt.Render(cmd.Context())
		return renderErr
	})
	if err != nil {
		return err
	}

	if err := loaders.SaveImage(output, fb); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", output)
	return nil
}

func newDistributionCommand(logOutput io.Writer, root *renderOptions) *cobra.Command {
	var (
		samples   int
		maxRadius int
		frameSize int
		padding   int
		seed      int64
		output    string
	)

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Plot four strategies for sampling points in a disc",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logOutput, root.verbose)
			if samples <= 0 || maxRadius <= 0 || 2*maxRadius > frameSize {
				return fmt.Errorf("need samples > 0 and 0 < 2*radius <= frame, got samples=%d radius=%d frame=%d",
					samples, maxRadius, frameSize)
			}

			random := rand.New(rand.NewSource(seed))
			experiments := []distribution.Experiment{
				distribution.Run("box reject", distribution.BoxReject, random, samples, maxRadius, frameSize),
				distribution.Run("box repeat", distribution.BoxRepeat, random, samples, maxRadius, frameSize),
				distribution.Run("r = random()", distribution.UniformRadius, random, samples, maxRadius, frameSize),
				distribution.Run("r = sqrt(random())", distribution.SqrtRadius, random, samples, maxRadius, frameSize),
			}

			img := distribution.Plot(experiments, frameSize, padding)
			if err := loaders.SaveImage(output, img); err != nil {
				return err
			}
			logger.Printf("Distribution plot saved as %s\n", output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&samples, "samples", 1500, "points per strategy")
	flags.IntVar(&maxRadius, "radius", 100, "disc radius in pixels")
	flags.IntVar(&frameSize, "frame", 300, "panel size in pixels")
	flags.IntVar(&padding, "padding", 50, "padding around each panel")
	flags.Int64Var(&seed, "seed", 42, "random seed")
	flags.StringVarP(&output, "out", "o", filepath.Join("output", "distribution.png"), "output image")
	return cmd
}

func newSceneCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Print the built-in scene as a scene file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loaders.FormatFromExt(strings.TrimPrefix(format, "."))
			if err != nil {
				return err
			}
			sceneFile, err := loadScene("")
			if err != nil {
				return err
			}
			return loaders.EncodeScene(cmd.OutOrStdout(), sceneFile, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "yaml, toml or json")
	return cmd
}

func newScenesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the scene files available by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := loaders.ListScenes(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(scenes) == 0 {
				fmt.Fprintf(out, "No scenes found in %s\n", dir)
				return nil
			}
			for _, info := range scenes {
				fmt.Fprintf(out, "%-20s %-5s %s", info.ID, info.Format, info.Name)
				if info.Description != "" {
					fmt.Fprintf(out, ": %s", info.Description)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", loaders.DefaultScenesDir, "directory to scan")
	return cmd
}
