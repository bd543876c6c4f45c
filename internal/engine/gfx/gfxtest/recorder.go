// Package gfxtest provides an in-memory gfx.Device for tests.
package gfxtest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/meshview/internal/engine/gfx"
)

// Draw is one recorded DrawArrays call with the attribute bindings active at the time.
type Draw struct {
	Mode      gfx.Primitive
	First     int32
	Count     int32
	PointSize float32
	Bindings  map[int32]gfx.Buffer
}

// UniformSet is one recorded uniform upload.
type UniformSet struct {
	Loc   int32
	Value any
}

// Recorder implements gfx.Device without a GPU.
// Attribute and uniform names resolve to stable locations; unknown names resolve to -1.
type Recorder struct {
	// Compile/link failures to inject; empty means success.
	FailCompile map[gfx.Stage]string
	FailLink    string

	Buffers  map[gfx.Buffer][]float32
	Shaders  map[gfx.Shader]gfx.Stage
	Programs map[gfx.Program]bool
	Current  gfx.Program

	Draws    []Draw
	Uniforms []UniformSet
	Calls    []string

	attribs  map[string]int32
	uniforms map[string]int32
	enabled  map[int32]bool
	bound    map[int32]gfx.Buffer

	pointSize float32
	next      uint32
}

var _ gfx.Device = (*Recorder)(nil)

// New creates a recorder that knows the given attribute and uniform names.
func New(attributes, uniforms []string) *Recorder {
	r := &Recorder{
		FailCompile: make(map[gfx.Stage]string),
		Buffers:     make(map[gfx.Buffer][]float32),
		Shaders:     make(map[gfx.Shader]gfx.Stage),
		Programs:    make(map[gfx.Program]bool),
		attribs:     make(map[string]int32),
		uniforms:    make(map[string]int32),
		enabled:     make(map[int32]bool),
		bound:       make(map[int32]gfx.Buffer),
		pointSize:   1,
	}
	for i, name := range attributes {
		r.attribs[name] = int32(i)
	}
	for i, name := range uniforms {
		r.uniforms[name] = int32(i)
	}
	return r
}

// NewDefault creates a recorder with the attributes and uniforms of the mesh shader.
func NewDefault() *Recorder {
	return New(
		[]string{"position", "color"},
		[]string{"projection", "view", "model", "is_selected", "opacity"},
	)
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// CreateBuffer stores a copy of data.
func (r *Recorder) CreateBuffer(data []float32) (gfx.Buffer, error) {
	b := gfx.Buffer(r.handle())
	cp := make([]float32, len(data))
	copy(cp, data)
	r.Buffers[b] = cp
	r.record("CreateBuffer(%d)", len(data))
	return b, nil
}

// DeleteBuffer forgets a buffer.
func (r *Recorder) DeleteBuffer(b gfx.Buffer) {
	delete(r.Buffers, b)
	r.record("DeleteBuffer(%d)", b)
}

// CompileShader fails if a failure was injected for stage.
func (r *Recorder) CompileShader(stage gfx.Stage, source string) (gfx.Shader, error) {
	r.record("CompileShader(%s)", stage)
	if msg, ok := r.FailCompile[stage]; ok {
		return 0, errors.New(msg)
	}
	s := gfx.Shader(r.handle())
	r.Shaders[s] = stage
	return s, nil
}

// DeleteShader forgets a stage.
func (r *Recorder) DeleteShader(s gfx.Shader) {
	delete(r.Shaders, s)
	r.record("DeleteShader(%d)", s)
}

// LinkProgram fails if FailLink is set.
func (r *Recorder) LinkProgram(vertex, fragment gfx.Shader) (gfx.Program, error) {
	r.record("LinkProgram(%d,%d)", vertex, fragment)
	if r.FailLink != "" {
		return 0, errors.New(r.FailLink)
	}
	p := gfx.Program(r.handle())
	r.Programs[p] = true
	return p, nil
}

// DeleteProgram forgets a program.
func (r *Recorder) DeleteProgram(p gfx.Program) {
	delete(r.Programs, p)
	r.record("DeleteProgram(%d)", p)
}

// UseProgram records the current program.
func (r *Recorder) UseProgram(p gfx.Program) {
	r.Current = p
	r.record("UseProgram(%d)", p)
}

// UniformLocation returns the registered location or -1.
func (r *Recorder) UniformLocation(p gfx.Program, name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) setUniform(loc int32, v any) {
	r.Uniforms = append(r.Uniforms, UniformSet{Loc: loc, Value: v})
	r.record("Uniform(%d)=%v", loc, v)
}

func (r *Recorder) Uniform1i(loc int32, v int32)         { r.setUniform(loc, v) }
func (r *Recorder) Uniform1f(loc int32, v float32)       { r.setUniform(loc, v) }
func (r *Recorder) Uniform3f(loc int32, x, y, z float32) { r.setUniform(loc, [3]float32{x, y, z}) }
func (r *Recorder) UniformMatrix4fv(loc int32, m *[16]float32) {
	r.setUniform(loc, *m)
}

// AttribLocation returns the registered location or -1.
func (r *Recorder) AttribLocation(p gfx.Program, name string) int32 {
	if loc, ok := r.attribs[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) EnableAttrib(loc int32) {
	r.enabled[loc] = true
	r.record("EnableAttrib(%d)", loc)
}

func (r *Recorder) DisableAttrib(loc int32) {
	delete(r.enabled, loc)
	delete(r.bound, loc)
	r.record("DisableAttrib(%d)", loc)
}

// AttribPointer records the binding.
func (r *Recorder) AttribPointer(loc int32, b gfx.Buffer, size int32) {
	r.bound[loc] = b
	r.record("AttribPointer(%d,%d,%d)", loc, b, size)
}

func (r *Recorder) UnbindBuffer() { r.record("UnbindBuffer") }

func (r *Recorder) PointSize(size float32) {
	r.pointSize = size
	r.record("PointSize(%g)", size)
}

// DrawArrays records the draw along with the enabled bindings.
func (r *Recorder) DrawArrays(mode gfx.Primitive, first, count int32) {
	bindings := make(map[int32]gfx.Buffer, len(r.bound))
	for loc, b := range r.bound {
		if r.enabled[loc] {
			bindings[loc] = b
		}
	}
	r.Draws = append(r.Draws, Draw{
		Mode:      mode,
		First:     first,
		Count:     count,
		PointSize: r.pointSize,
		Bindings:  bindings,
	})
	r.record("DrawArrays(%s,%d,%d)", mode, first, count)
}

// AttribLoc returns the location registered for name, or -1.
func (r *Recorder) AttribLoc(name string) int32 {
	return r.AttribLocation(0, name)
}

// UniformLoc returns the location registered for name, or -1.
func (r *Recorder) UniformLoc(name string) int32 {
	return r.UniformLocation(0, name)
}

// Enabled returns the currently enabled attribute locations in ascending order.
func (r *Recorder) Enabled() []int32 {
	locs := make([]int32, 0, len(r.enabled))
	for loc := range r.enabled {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	return locs
}

// DrawsOf returns the recorded draws with the given primitive.
func (r *Recorder) DrawsOf(mode gfx.Primitive) []Draw {
	var out []Draw
	for _, d := range r.Draws {
		if d.Mode == mode {
			out = append(out, d)
		}
	}
	return out
}

// Reset clears recorded draws, uniforms and calls but keeps resources.
func (r *Recorder) Reset() {
	r.Draws = nil
	r.Uniforms = nil
	r.Calls = nil
}
