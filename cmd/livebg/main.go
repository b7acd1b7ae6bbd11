package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/livebg/internal/config"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/effects"
	"github.com/san-kum/livebg/internal/gui"
	"github.com/san-kum/livebg/internal/logging"
	"github.com/san-kum/livebg/internal/registry"
	"github.com/san-kum/livebg/internal/session"
	"github.com/san-kum/livebg/internal/viz"
	"github.com/san-kum/livebg/internal/wasmfx"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	wasmDir    string
	logFile    string
	debug      bool

	speed    float64
	density  float64
	zoom     float64
	zoomAuto bool
	paused   bool
	fps      int
	marker   float64
	scale    float64
	seed     int64
	theme    string

	// render
	width    int
	height   int
	frames   int
	outDir   string
	every    int
	realtime bool
	chartOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "livebg",
		Short:        "animated point cloud effects",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runTerminal,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".livebg", "capture directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&wasmDir, "wasm-dir", "", "directory of .wasm effect modules")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	sessionFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [effect]",
		Short: "run an effect in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTerminal,
	}
	sessionFlags(runCmd)
	runCmd.Flags().StringVar(&theme, "theme", "mono", "color theme")

	windowCmd := &cobra.Command{
		Use:   "window [effect]",
		Short: "run an effect in a native window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWindow,
	}
	sessionFlags(windowCmd)
	windowCmd.Flags().IntVar(&width, "width", 1280, "window width")
	windowCmd.Flags().IntVar(&height, "height", 720, "window height")

	renderCmd := &cobra.Command{
		Use:   "render [effect...]",
		Short: "render frames headlessly to png and store a capture",
		RunE:  runRender,
	}
	sessionFlags(renderCmd)
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "surface width")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "surface height")
	renderCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	renderCmd.Flags().StringVar(&outDir, "out", config.DefaultOut, "png output directory")
	renderCmd.Flags().IntVar(&every, "every", 0, "write a png every n frames (last frame always)")
	renderCmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames with a wall-clock timer")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available effects",
		RunE:  listEffects,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [effect]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	capturesCmd := &cobra.Command{
		Use:   "captures",
		Short: "list stored captures",
		RunE:  listCaptures,
	}
	capturesCmd.AddCommand(&cobra.Command{
		Use:   "show [capture_id]",
		Short: "print a capture with its samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  showCapture,
	})
	chartCmd := &cobra.Command{
		Use:   "chart [capture_id]",
		Short: "write an html chart of a capture",
		Args:  cobra.ExactArgs(1),
		RunE:  chartCapture,
	}
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "", "output file (default <capture dir>/chart.html)")
	capturesCmd.AddCommand(chartCmd)
	capturesCmd.AddCommand(&cobra.Command{
		Use:   "plot [capture_id]",
		Short: "plot point count and frame rate of a capture",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCapture,
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	})

	rootCmd.AddCommand(runCmd, windowCmd, renderCmd, listCmd, presetsCmd, capturesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sessionFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&speed, "speed", d.Speed, "animation speed")
	cmd.Flags().Float64Var(&density, "density", d.Density, "points per unit area")
	cmd.Flags().Float64Var(&zoom, "zoom", d.Zoom, "zoom factor")
	cmd.Flags().BoolVar(&zoomAuto, "zoom-auto", d.ZoomAuto, "pulse the zoom")
	cmd.Flags().BoolVar(&paused, "paused", false, "start paused")
	cmd.Flags().IntVar(&fps, "fps", d.FPS, "target frame rate")
	cmd.Flags().Float64Var(&marker, "marker", d.MarkerSize, "point marker size")
	cmd.Flags().Float64Var(&scale, "scale", d.Scale, "device pixel scale")
	cmd.Flags().Int64Var(&seed, "seed", d.Seed, "random seed")
}

// loadConfig resolves the configuration for cmd: preset, then the config
// file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := config.DefaultEffect
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(name, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", preset, name, config.ListPresets(name))
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("zoom") {
		cfg.Zoom = zoom
	}
	if flags.Changed("zoom-auto") {
		cfg.ZoomAuto = zoomAuto
	}
	if flags.Changed("paused") {
		cfg.Running = !paused
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("marker") {
		cfg.MarkerSize = marker
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("wasm-dir") {
		cfg.WasmDir = wasmDir
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}
	if flags.Changed("frames") {
		cfg.Render.Frames = frames
	}
	if flags.Changed("out") {
		cfg.Render.Out = outDir
	}
	if flags.Changed("realtime") {
		cfg.Render.Realtime = realtime
	}
	if len(args) > 0 {
		cfg.Effect = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the process logger. Without a log file, interactive
// commands stay silent so the screen is not corrupted.
func setupLogging(interactive bool) (func(), error) {
	var w io.Writer
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		w, closeFn = f, func() { f.Close() }
	case interactive:
		return closeFn, nil
	default:
		w = os.Stderr
	}
	logging.Set(logging.New(w, debug))
	return closeFn, nil
}

// effectLoaders returns the built-in loaders plus one per module in the
// configured wasm directory.
func effectLoaders(cfg *config.Config) (map[string]effect.Loader, error) {
	loaders := effects.Builtins(cfg.Seed)
	modules, err := wasmfx.Discover(cfg.WasmDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.WasmDir, err)
	}
	for name, l := range modules {
		if _, ok := loaders[name]; ok {
			logging.L().Warn("wasm module shadows builtin", "name", name)
		}
		loaders[name] = l
	}
	return loaders, nil
}

func newRegistry(cfg *config.Config) (*registry.Registry, error) {
	loaders, err := effectLoaders(cfg)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	reg.RegisterAll(loaders)
	return reg, nil
}

func newSession(reg *registry.Registry, cfg *config.Config, surf effect.Surface) *session.Session {
	return session.New(reg,
		session.WithParams(cfg.Params()),
		session.WithMarker(cfg.MarkerSize),
		session.WithSurface(surf),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	done, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer done()

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()
	if !reg.Has(cfg.Effect) {
		return fmt.Errorf("%w: %s", effect.ErrUnknownBackend, cfg.Effect)
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess := newSession(reg, cfg, effect.Surface{})
	m := viz.NewModel(ctx, sess, reg, viz.Options{
		Effects: reg.Names(),
		Initial: cfg.Effect,
		FPS:     cfg.FPS,
		Theme:   theme,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	done, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer done()

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx, cancel := signalContext()
	defer cancel()

	sess := newSession(reg, cfg, effect.Surface{})
	w, h := 1280, 720
	if cmd.Flags().Changed("width") {
		w = width
	}
	if cmd.Flags().Changed("height") {
		h = height
	}
	return gui.Run(ctx, sess, reg, gui.Options{
		Effects: reg.Names(),
		Initial: cfg.Effect,
		FPS:     cfg.FPS,
		Width:   w,
		Height:  h,
	})
}

func listEffects(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("wasm-dir") {
		cfg.WasmDir = wasmDir
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tDESCRIPTION")
	for _, name := range reg.Names() {
		desc := effects.Describe(name)
		source := "builtin"
		if desc == "" {
			source, desc = "wasm", cfg.WasmDir
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, source, desc)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := []string{"livebg", "fire", "spiral"}
	if len(args) > 0 {
		names = args
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EFFECT\tPRESET\tSPEED\tDENSITY\tZOOM\tAUTO")
	for _, effectName := range names {
		for _, p := range config.ListPresets(effectName) {
			c := config.GetPreset(effectName, p)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n", effectName, p,
				session.SpeedText(c.Speed), session.DensityText(c.Density), session.ZoomText(c.Zoom), c.ZoomAuto)
		}
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func formatDuration(seconds float64) string {
	return (time.Duration(seconds * float64(time.Second))).Round(time.Millisecond).String()
}
