// photon - path tracer for triangle-mesh scenes
// Renders a JSON scene description (or the built-in demo scene) to a PNG or
// BMP image, optionally previewing progress in the terminal and uploading the
// result to an S3-compatible bucket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/taigrr/photon/pkg/models"
	"github.com/taigrr/photon/pkg/output"
	"github.com/taigrr/photon/pkg/render"
)

var version = "dev"

// options holds the flags that are not scene settings; those are read in
// applyFlags.
type options struct {
	out        string
	seed       int64
	noCompress bool
	bounds     bool
	preview    bool
	fps        int
	upload     string
	envFile    string
	verbose    bool
}

func main() {
	err := fang.Execute(
		context.Background(),
		newRootCmd(os.Stdout, os.Stderr),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "photon [scene.json]",
		Short: "Render a triangle-mesh scene with a Monte Carlo path tracer",
		Long: "photon renders the scene described by a JSON file, or the built-in demo\n" +
			"scene when none is given, and writes the image as PNG or BMP.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "render.png", "output image (.png or .bmp)")
	f.Int("width", models.DefaultWidth, "image width in pixels")
	f.Int("height", 0, "image height in pixels (default: width at 16:9)")
	f.IntP("samples", "s", models.DefaultSamples, "samples per pixel")
	f.IntP("bounces", "b", models.DefaultMaxBounces, "maximum bounces per path")
	f.Float64("shadow-bias", render.DefaultShadowBias, "minimum hit distance")
	f.Float64("box-padding", 0, "bounding box padding (default 1e-4)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for a reproducible render")
	f.BoolVar(&opts.noCompress, "no-compress", false, "clamp bright pixels instead of rescaling them")
	f.BoolVar(&opts.bounds, "bounds", false, "draw object bounding boxes over the image")
	f.BoolVarP(&opts.preview, "preview", "p", false, "show render progress in the terminal")
	f.IntVar(&opts.fps, "fps", 30, "preview frame rate")
	f.StringVar(&opts.upload, "upload", "", "upload the image to this S3 key (PHOTON_S3_* settings)")
	f.StringVar(&opts.envFile, "env", "", "load environment variables from this file (default .env if present)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log render details")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()
	logger := log.NewWithOptions(stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "photon",
	})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := loadEnv(opts.envFile); err != nil {
		return err
	}

	sf, baseDir, name, err := loadScene(args)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), sf); err != nil {
		return err
	}

	scene, models, err := sf.BuildReport(baseDir)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	for _, m := range models {
		logger.Info("model loaded", "path", m.Path, "vertices", m.Vertices,
			"triangles", m.Triangles, "materials", m.Materials)
		if m.Skipped > 0 {
			logger.Warn("degenerate faces dropped", "path", m.Path, "count", m.Skipped)
		}
	}
	logger.Debug("scene built", "objects", scene.Len(), "triangles", scene.TriangleCount())

	fb := render.NewFramebuffer(sf.Width, sf.Height)
	canvas := render.NewLockedCanvas(fb)

	tracerOpts := append(sf.TracerOptions(),
		render.WithHighlightCompression(!opts.noCompress),
		render.WithLogger(logger),
	)
	if cmd.Flags().Changed("seed") {
		tracerOpts = append(tracerOpts, render.WithSeed(opts.seed))
	}

	var preview *render.Preview
	if opts.preview {
		preview = render.NewPreview(canvas, opts.fps)
		tracerOpts = append(tracerOpts, render.WithProgress(preview.SetProgress))
	} else {
		tracerOpts = append(tracerOpts, render.WithProgress(logProgress(logger)))
	}
	tracer := render.NewRayTracer(canvas, sf.ViewportHeight, sf.FocalLength, tracerOpts...)

	start := time.Now()
	draw := func(ctx context.Context) error {
		return tracer.DrawContext(ctx, canvas, scene, sf.Samples, sf.MaxBounces)
	}
	if preview != nil {
		err = runPreview(ctx, preview, opts.fps, draw)
	} else {
		err = draw(ctx)
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	if opts.bounds {
		render.DrawBounds(fb, tracer.Viewport(), scene.Bounds(), render.ColorGreen)
	}

	if err := output.ForPath(opts.out).Write(fb.Width, fb.Height, fb.Pixels); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logger.Info("image written", "path", opts.out)

	uploaded := ""
	if opts.upload != "" {
		if err := upload(ctx, opts.upload, fb); err != nil {
			return err
		}
		uploaded = opts.upload
		logger.Info("image uploaded", "key", uploaded)
	}

	printSummary(stdout, summary{
		Scene:     name,
		Width:     sf.Width,
		Height:    sf.Height,
		Samples:   sf.Samples,
		Bounces:   sf.MaxBounces,
		Objects:   scene.Len(),
		Triangles: scene.TriangleCount(),
		Elapsed:   elapsed,
		Output:    opts.out,
		Uploaded:  uploaded,
	})
	return nil
}

// loadEnv loads an explicit env file, or .env from the working directory
// when it exists.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadScene returns the scene file named by args, or the demo scene.
func loadScene(args []string) (sf *models.SceneFile, baseDir, name string, err error) {
	if len(args) == 0 {
		return models.DemoScene(), ".", "demo", nil
	}
	sf, err = models.LoadSceneFile(args[0])
	if err != nil {
		return nil, "", "", err
	}
	return sf, filepath.Dir(args[0]), filepath.Base(args[0]), nil
}

// applyFlags overrides scene settings with explicitly set flags.
func applyFlags(flags *pflag.FlagSet, sf *models.SceneFile) error {
	setInt := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}

	if flags.Changed("width") && !flags.Changed("height") {
		sf.Height = 0
	}
	setInt("width", &sf.Width)
	setInt("height", &sf.Height)
	setInt("samples", &sf.Samples)
	sf.ApplyDefaults()

	// Zero is meaningful for these on the command line, so they are applied
	// after defaults fill unset scene values.
	setInt("bounces", &sf.MaxBounces)
	setFloat("shadow-bias", &sf.ShadowBias)
	setFloat("box-padding", &sf.BoxPadding)
	return sf.Validate()
}

// logProgress reports every tenth of the rows.
func logProgress(logger *log.Logger) render.ProgressFunc {
	last := -1
	return func(done, total int) {
		if pct := done * 10 / total; pct != last {
			last = pct
			logger.Info("rendering", "progress", fmt.Sprintf("%d%%", pct*10))
		}
	}
}

func upload(ctx context.Context, key string, fb *render.Framebuffer) error {
	cfg := output.S3ConfigFromEnv()
	client, err := output.NewS3Client(cfg)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	w := output.NewS3Writer(client, cfg, key)
	if err := w.WriteContext(ctx, fb.Width, fb.Height, fb.Pixels); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}
