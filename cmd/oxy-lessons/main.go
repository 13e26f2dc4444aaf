// Command oxy-lessons runs one of the rendering lessons in a native window.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/lesson"
	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
)

func init() {
	// GLFW and the surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		log.Printf("oxy-lessons: %v", err)
		os.Exit(1)
	}
}

func run() error {
	name := flag.String("lesson", "cube", "lesson to run")
	configPath := flag.String("config", "", "YAML file overriding or adding lessons")
	list := flag.Bool("list", false, "print the available lessons and exit")
	width := flag.Int("width", 800, "window width in pixels")
	height := flag.Int("height", 600, "window height in pixels")
	vsync := flag.Bool("vsync", true, "wait for vertical blank when presenting")
	msaa := flag.Bool("msaa", true, "enable 4x multisample anti-aliasing")
	fps := flag.Float64("fps", 0, "frame rate cap (0 for uncapped)")
	software := flag.Bool("software", false, "force the fallback (software) adapter")
	profile := flag.Bool("profile", false, "log frame rate and skipped frames every second")
	flag.Parse()

	configs := lesson.Builtins()
	if *configPath != "" {
		var err error
		if configs, err = lesson.LoadConfigs(*configPath); err != nil {
			return err
		}
	}

	if *list {
		return printLessons(os.Stdout, configs)
	}

	cfg, ok := lesson.Lookup(configs, *name)
	if !ok {
		return fmt.Errorf("unknown lesson %q, run with -list to see the available lessons", *name)
	}

	win := window.NewWindow(
		window.WithTitle(lessonTitle(cfg)),
		window.WithWidth(*width),
		window.WithHeight(*height),
	)
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg, *vsync, *msaa, *software)...)

	var prof *profiler.Profiler
	var lessonOpts []lesson.LessonBuilderOption
	if *profile {
		prof = profiler.NewProfiler()
		lessonOpts = append(lessonOpts, lesson.WithSkipHook(prof.FrameSkipped))
	}

	l, err := lesson.New(cfg, r, lessonOpts...)
	if err != nil {
		_ = win.Close()
		return err
	}
	win.SetDragCallback(l.HandleDrag)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithDelegate(l),
		engine.WithProfiler(prof),
		engine.WithFrameLimit(*fps),
	)
	win.SetKeyDownCallback(keyHandler(eng, l))
	eng.Run()

	log.Printf("lesson %s: %d frames, %d skipped", cfg.Name, l.Frames(), l.Skipped())
	return nil
}

// keyHandler quits on Q. Space stops the spin of an interactive lesson and R restores the
// rest pose.
func keyHandler(eng engine.Engine, l lesson.Lesson) func(keyCode uint32) {
	return func(keyCode uint32) {
		switch keyCode {
		case common.KeyQ:
			eng.Quit()
		case common.KeySpace:
			if s := l.Spin(); s != nil {
				s.SetDragVelocity(0, 0)
			}
		case common.KeyR:
			if s := l.Spin(); s != nil {
				s.Reset()
			}
		}
	}
}

func rendererOptions(cfg lesson.Config, vsync, msaa, software bool) []renderer.RendererBuilderOption {
	mode := renderer.PresentModeUncapped
	if vsync {
		mode = renderer.PresentModeVSync
	}
	samples := renderer.MSAAOff
	if msaa {
		samples = renderer.MSAA4x
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(samples),
		renderer.WithForceSoftwareRenderer(software),
		renderer.WithClearColor(cfg.Clear()),
		renderer.WithDepth(cfg.NeedsDepth()),
	}
}

func lessonTitle(cfg lesson.Config) string {
	if cfg.Title == "" {
		return cfg.Name
	}
	return cfg.Title
}

func printLessons(w io.Writer, configs []lesson.Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGEOMETRY\tTITLE")
	for _, c := range configs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Geometry, lessonTitle(c))
	}
	return tw.Flush()
}
