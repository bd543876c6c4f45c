// Package viewer implements the main loop of the mesh viewer.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/capture"
	"github.com/Faultbox/meshview/internal/engine/filedialog"
	"github.com/Faultbox/meshview/internal/engine/gfx/opengl"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer/controls"
)

// Viewer owns the window, the GL device and the scene.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	device *opengl.Device
	scene  *scene.Scene
	camera *camera.OrbitCamera
	input  *input.Input
	shots  *capture.Screenshots
	picker *filedialog.Picker

	width, height  int
	wantScreenshot bool
	log            *zap.Logger
}

// New opens the window and uploads every object of cfg.Scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("objects", len(cfg.Scene)),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Device AFTER window, since the OpenGL context must exist
	v.device, err = opengl.New()
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	v.scene, err = scene.New(v.device)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	v.scene.Opacity = cfg.Render.Opacity

	if err := v.populate(); err != nil {
		v.Close()
		return nil, err
	}

	v.camera = camera.NewOrbitCamera()
	v.camera.FOVDegree = cfg.Camera.FOVDegrees
	v.camera.Near, v.camera.Far = cfg.Camera.Near, cfg.Camera.Far
	v.camera.Distance = cfg.Camera.Distance
	v.camera.Target = mgl32.Vec3(cfg.Camera.Target)

	v.input = input.New()
	v.shots = capture.NewScreenshots(cfg.Render.ScreenshotDir, "meshview")
	v.picker = filedialog.NewOBJPicker()
	v.resize(v.window.DrawableSize())

	v.log.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) populate() error {
	objs, err := scene.FromConfig(v.cfg, v.cfg.BaseDir())
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	for _, o := range objs {
		if err := v.scene.Add(o); err != nil {
			return fmt.Errorf("failed to add %q: %w", o.Name(), err)
		}
	}
	return nil
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.openPending()

		// 2. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if v.wantScreenshot {
			v.wantScreenshot = false
			v.screenshot()
		}

		// 3. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// event size is in points; GL wants pixels
			v.resize(v.window.DrawableSize())
		case input.EventKeyDown:
			action := controls.ForKey(rune(event.Key))
			if action == controls.None {
				continue
			}
			v.log.Debug("action", zap.Stringer("action", action))
			switch action {
			case controls.Screenshot:
				v.wantScreenshot = true
			case controls.SaveSettings:
				if _, err := controls.SaveSettings(v.cfg, controls.DisplayOf(v.scene)); err != nil {
					v.log.Error("save settings failed", zap.Error(err))
				}
			case controls.OpenFile:
				v.picker.Open()
			default:
				if controls.Apply(action, v.scene, v.camera) {
					v.running = false
				}
			}
		case input.EventClick:
			v.pick(event.MouseX, event.MouseY)
		case input.EventMouseDrag:
			v.camera.HandleDrag(event.DX, event.DY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DY)
		}
	}
}

// openPending adds the file chosen in the open dialog, if any.
func (v *Viewer) openPending() {
	path, ok := v.picker.Poll()
	if !ok {
		return
	}
	if _, err := controls.OpenOBJ(v.scene, path, controls.OpenOptions(v.cfg, v.scene)...); err != nil {
		v.log.Error("open failed", zap.String("path", path), zap.Error(err))
	}
}

// pick selects the object under the cursor, or clears the selection.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	if w <= 0 || h <= 0 {
		return
	}
	ray := picking.ScreenToRay(float32(x), float32(y), w, h,
		v.camera.ProjectionMatrix(v.width, v.height), v.camera.ViewMatrix())
	name := ""
	if o := v.scene.Pick(ray); o != nil {
		name = o.Name()
	}
	v.scene.Select(name)
	v.log.Info("picked", zap.String("name", name))
}

func (v *Viewer) screenshot() {
	pixels := v.device.ReadPixels(v.width, v.height)
	path, err := v.shots.SavePixels(pixels, v.width, v.height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.device.Viewport(width, height)
}

func (v *Viewer) render() error {
	bg := v.cfg.Render.Background
	v.device.ClearColor(bg[0], bg[1], bg[2])
	v.device.Clear()

	return v.scene.Draw(v.camera.ProjectionMatrix(v.width, v.height), v.camera.ViewMatrix())
}

// Close releases GPU resources and closes the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Close()
	}
	if v.device != nil {
		v.device.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
