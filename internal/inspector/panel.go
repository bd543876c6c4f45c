package inspector

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/meshview/internal/engine/ui"
	"github.com/Faultbox/meshview/internal/viewer/controls"
)

var hotkeys = []struct {
	key    imgui.Key
	action controls.Action
}{
	{imgui.KeyEscape, controls.Quit},
	{imgui.KeyV, controls.ToggleVertices},
	{imgui.KeyE, controls.ToggleEdges},
	{imgui.KeyF, controls.ToggleFaces},
	{imgui.KeyB, controls.ToggleBounds},
	{imgui.KeyTab, controls.SelectNext},
	{imgui.KeyR, controls.FitView},
	{imgui.KeyP, controls.Screenshot},
	{imgui.KeyS, controls.SaveSettings},
	{imgui.KeyO, controls.OpenFile},
}

func (in *Inspector) hotkeys() {
	for _, hk := range hotkeys {
		if ui.IsKeyPressed(hk.key) {
			in.run(hk.action)
		}
	}
}

func (in *Inspector) menu() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBool("Open OBJ...") {
			in.run(controls.OpenFile)
		}
		if imgui.MenuItemBool("Save Settings") {
			in.run(controls.SaveSettings)
		}
		if imgui.MenuItemBool("Screenshot") {
			in.run(controls.Screenshot)
		}
		imgui.Separator()
		if imgui.MenuItemBool("Exit") {
			in.run(controls.Quit)
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("View") {
		if imgui.MenuItemBool("Fit View") {
			in.run(controls.FitView)
		}
		if imgui.MenuItemBool("Next Object") {
			in.run(controls.SelectNext)
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

func (in *Inspector) drawPanel(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove | imgui.WindowFlagsNoCollapse
	if !imgui.BeginV("Objects", nil, flags) {
		imgui.End()
		return
	}

	imgui.Text("Display")
	d := &in.panel.Display
	changed := imgui.Checkbox("Vertices", &d.ShowVertices)
	changed = imgui.Checkbox("Edges", &d.ShowEdges) || changed
	changed = imgui.Checkbox("Faces", &d.ShowFaces) || changed
	changed = imgui.Checkbox("Bounds", &d.ShowBounds) || changed
	if changed {
		in.panel.Commit(in.scene)
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Objects (%d)", len(in.panel.Rows)))
	if len(in.panel.Rows) == 0 {
		imgui.TextDisabled("Use File > Open OBJ...")
	}
	for _, row := range in.panel.Rows {
		if imgui.SelectableBoolV(row.Name, row.Selected, 0, imgui.NewVec2(0, 0)) {
			in.panel.Toggle(in.scene, row.Name)
			break
		}
	}

	if sel := in.scene.Selected(); sel != nil {
		imgui.Separator()
		imgui.Text(sel.Name())
		if b, ok := sel.(interface {
			Bounds() (min, max [3]float64, ok bool)
		}); ok {
			if lo, hi, ok := b.Bounds(); ok {
				imgui.TextDisabled(fmt.Sprintf("min %.3f %.3f %.3f", lo[0], lo[1], lo[2]))
				imgui.TextDisabled(fmt.Sprintf("max %.3f %.3f %.3f", hi[0], hi[1], hi[2]))
			}
		}
	}

	imgui.Separator()
	if imgui.Button("Fit View") {
		in.run(controls.FitView)
	}
	imgui.SameLine()
	if imgui.Button("Open OBJ...") {
		in.run(controls.OpenFile)
	}
	if in.status != "" {
		imgui.TextWrapped(in.status)
	}
	imgui.End()
}

func (in *Inspector) drawScene(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	defer imgui.PopStyleVar()
	if !imgui.BeginV("##scene", nil, flags) {
		imgui.End()
		return
	}
	defer imgui.End()

	avail := imgui.ContentRegionAvail()
	in.target.Resize(int(avail.X), int(avail.Y))
	in.renderScene()

	origin := imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(in.target.Texture()))
	imgui.ImageV(*texRef, avail,
		imgui.NewVec2(0, 1), // GL rows are bottom-up
		imgui.NewVec2(1, 0))

	if !imgui.IsItemHovered() {
		return
	}
	mouse := imgui.MousePos()
	if imgui.IsItemClicked() {
		in.pick(mouse.X-origin.X, mouse.Y-origin.Y)
	} else if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		in.camera.HandleDrag(mouse.X-in.lastMouse.X, mouse.Y-in.lastMouse.Y)
	}
	in.lastMouse = mouse

	if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
		in.camera.HandleZoom(wheel)
	}
}
