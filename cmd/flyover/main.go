// Command flyover opens a window and flies a hovering vehicle over endless
// procedurally generated terrain.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"flyover/internal/config"
	"flyover/internal/game"
	"flyover/internal/graphics"
	"flyover/internal/input"
	"flyover/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	winW = 900
	winH = 600
)

func init() {
	runtime.LockOSThread()
}

func main() {
	logger := log.New(os.Stdout, "[flyover] ", log.LstdFlags|log.Lmicroseconds)

	var flags config.Flags
	fps := config.GetFPSLimit()
	fs := flag.NewFlagSet("flyover", flag.ExitOnError)
	flags.Bind(fs)
	fs.IntVar(&fps, "fps", fps, "frame cap, 0 for uncapped")
	_ = fs.Parse(os.Args[1:])
	config.SetFPSLimit(fps)

	cfg, err := flags.Resolve()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		logger.Fatalf("glfw: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		logger.Fatalf("window: %v", err)
	}
	if err := gl.Init(); err != nil {
		logger.Fatalf("gl: %v", err)
	}

	fbW, fbH := window.GetFramebufferSize()
	r, err := graphics.NewRenderer(fbW, fbH)
	if err != nil {
		logger.Fatalf("renderer: %v", err)
	}
	defer r.Dispose()
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.Resize(width, height)
	})

	im := input.NewInputManager()
	im.SetKeyCallback(window)

	ctx := context.Background()
	session, err := game.NewSession(cfg, im, r, logger)
	if err != nil {
		logger.Fatalf("session: %v", err)
	}
	defer session.Close()
	if err := session.Start(ctx); err != nil {
		logger.Fatalf("start: %v", err)
	}

	runGameLoop(ctx, window, r, im, session, logger)
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winW, winH, "flyover", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)
	return window, nil
}

// handleActions applies the edge-triggered key bindings for this frame.
func handleActions(im *input.InputManager, r *graphics.Renderer, s *game.Session, showProfile *bool, logger *log.Logger) {
	if im.JustPressed(input.ActionPause) {
		s.Paused = !s.Paused
		logger.Printf("paused: %v at tick %d", s.Paused, s.Player.Ticks)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		r.Wireframe = !r.Wireframe
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		*showProfile = !*showProfile
	}
	if im.JustPressed(input.ActionRenderDistanceUp) {
		s.AdjustRenderDistance(1)
	}
	if im.JustPressed(input.ActionRenderDistanceDown) {
		s.AdjustRenderDistance(-1)
	}
}

func runGameLoop(ctx context.Context, window *glfw.Window, r *graphics.Renderer, im *input.InputManager, s *game.Session, logger *log.Logger) {
	limiter := game.NewFPSLimiter()
	frames := 0
	lastFPSCheck := time.Now()
	showProfile := false

	for !window.ShouldClose() {
		profiling.ResetFrame()
		start := time.Now()

		handleActions(im, r, s, &showProfile, logger)
		if _, err := s.Tick(ctx); err != nil {
			logger.Printf("tick: %v", err)
		}

		r.Render()
		frames++

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		im.PostUpdate()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		if time.Since(lastFPSCheck) >= time.Second {
			if showProfile {
				logger.Printf("FPS: %d, chunks: %d, top: %s", frames, r.ChunkCount(), profiling.TopN(5))
			}
			frames = 0
			lastFPSCheck = time.Now()
		}

		if limit := config.GetFPSLimit(); limit > 0 && !s.Paused {
			if total, budget := time.Since(start), time.Second/time.Duration(limit); total > budget*2 {
				logger.Printf("slow frame %.2fms at tick %d: %s", float64(total.Microseconds())/1000, s.Player.Ticks, profiling.TopN(3))
			}
		}
		limiter.Wait(s.Paused)
	}
}
