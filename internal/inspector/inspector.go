// Package inspector is the panel front end of the mesh viewer: the scene is
// rendered into an offscreen target and shown next to an object panel.
package inspector

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/capture"
	"github.com/Faultbox/meshview/internal/engine/filedialog"
	"github.com/Faultbox/meshview/internal/engine/gfx/opengl"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/engine/ui"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer/controls"
)

const panelWidth = float32(260)

// Inspector owns the ImGui backend, the GL device and the scene.
type Inspector struct {
	cfg *config.Config

	backend *ui.Backend
	device  *opengl.Device
	target  *opengl.Target
	scene   *scene.Scene
	camera  *camera.OrbitCamera
	shots   *capture.Screenshots
	picker  *filedialog.Picker

	panel     controls.Panel
	lastMouse imgui.Vec2
	status    string

	log *zap.Logger
}

// New opens the window and uploads every object of cfg.Scene.
func New(cfg *config.Config) (*Inspector, error) {
	in := &Inspector{
		cfg: cfg,
		log: logger.Named("inspector"),
	}
	in.log.Info("initializing inspector", zap.Int("objects", len(cfg.Scene)))

	var err error
	in.backend, err = ui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Render.Background)
	if err != nil {
		return nil, fmt.Errorf("failed to create UI backend: %w", err)
	}

	in.device, err = opengl.New()
	if err != nil {
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	in.target, err = in.device.NewTarget(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to create render target: %w", err)
	}

	in.scene, err = scene.New(in.device)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	in.scene.Opacity = cfg.Render.Opacity

	objs, err := scene.FromConfig(cfg, cfg.BaseDir())
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	for _, o := range objs {
		if err := in.scene.Add(o); err != nil {
			in.Close()
			return nil, fmt.Errorf("failed to add %q: %w", o.Name(), err)
		}
	}

	in.camera = camera.NewOrbitCamera()
	in.camera.FOVDegree = cfg.Camera.FOVDegrees
	in.camera.Near, in.camera.Far = cfg.Camera.Near, cfg.Camera.Far
	in.camera.Distance = cfg.Camera.Distance
	in.camera.Target = mgl32.Vec3(cfg.Camera.Target)

	in.shots = capture.NewScreenshots(cfg.Render.ScreenshotDir, "meshview")
	in.picker = filedialog.NewOBJPicker()
	in.panel.Sync(in.scene)

	return in, nil
}

// Run blocks until the window is closed.
func (in *Inspector) Run() {
	in.log.Info("starting render loop")
	in.backend.Run(in.frame)
}

func (in *Inspector) frame() {
	in.openPending()
	in.panel.Sync(in.scene)

	in.menu()
	in.hotkeys()

	x, y, w, h := ui.Viewport()
	in.drawPanel(x, y, panelWidth, h)
	in.drawScene(x+panelWidth, y, w-panelWidth, h)
}

// run executes an action from the menu, the panel or the keyboard.
func (in *Inspector) run(a controls.Action) {
	in.log.Debug("action", zap.Stringer("action", a))
	switch a {
	case controls.Screenshot:
		in.screenshot()
	case controls.SaveSettings:
		path, err := controls.SaveSettings(in.cfg, in.panel.DisplayConfig())
		if err != nil {
			in.log.Error("save settings failed", zap.Error(err))
			in.status = "Save failed"
			return
		}
		in.status = "Saved " + path
	case controls.OpenFile:
		in.picker.Open()
	default:
		if controls.Apply(a, in.scene, in.camera) {
			in.backend.Quit()
		}
	}
	in.panel.Sync(in.scene)
}

func (in *Inspector) openPending() {
	path, ok := in.picker.Poll()
	if !ok {
		return
	}
	o, err := controls.OpenOBJ(in.scene, path, controls.OpenOptions(in.cfg, in.scene)...)
	if err != nil {
		in.log.Error("open failed", zap.String("path", path), zap.Error(err))
		in.status = "Open failed: " + err.Error()
		return
	}
	in.status = "Opened " + o.Name()
}

func (in *Inspector) screenshot() {
	w, h := in.target.Size()
	path, err := in.shots.SavePixels(in.target.ReadPixels(), w, h)
	if err != nil {
		in.log.Error("screenshot failed", zap.Error(err))
		in.status = "Screenshot failed"
		return
	}
	in.log.Info("screenshot saved", zap.String("path", path))
	in.status = "Saved " + path
}

// pick selects the object under a point of the scene image, or clears the selection.
func (in *Inspector) pick(x, y float32) {
	w, h := in.target.Size()
	ray := picking.ScreenToRay(x, y, w, h,
		in.camera.ProjectionMatrix(w, h), in.camera.ViewMatrix())
	name := ""
	if o := in.scene.Pick(ray); o != nil {
		name = o.Name()
	}
	in.scene.Select(name)
	in.log.Info("picked", zap.String("name", name))
}

// renderScene draws the scene into the offscreen target.
func (in *Inspector) renderScene() {
	w, h := in.target.Size()
	in.device.Restore()
	in.target.Begin()
	defer in.target.End()

	bg := in.cfg.Render.Background
	in.device.ClearColor(bg[0], bg[1], bg[2])
	in.device.Clear()
	if err := in.scene.Draw(in.camera.ProjectionMatrix(w, h), in.camera.ViewMatrix()); err != nil {
		in.log.Error("render error", zap.Error(err))
	}
}

// Close releases GPU resources.
func (in *Inspector) Close() {
	in.log.Info("closing inspector")

	if in.scene != nil {
		in.scene.Close()
	}
	if in.target != nil {
		in.target.Close()
	}
	if in.device != nil {
		in.device.Close()
	}
}
