// Package shader wraps a linked GPU program: uniforms, vertex attributes and draws.
package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/logger"
)

var (
	// ErrCompile matches every *CompileError.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink matches every *LinkError.
	ErrLink = errors.New("shader link failed")
	// ErrAttributeNotEnabled is returned when binding or disabling an attribute
	// that was never enabled. It indicates a draw-order bug.
	ErrAttributeNotEnabled = errors.New("attribute not enabled")
)

// CompileError carries the compiler log of a failed stage.
type CompileError struct {
	Stage gfx.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// LinkError carries the linker log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link: %s", e.Log)
}

func (e *LinkError) Is(target error) bool { return target == ErrLink }

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Stage objects are always released; on failure no program handle is returned.
func CompileProgram(dev gfx.Device, vertexSrc, fragmentSrc string) (gfx.Program, error) {
	vert, err := dev.CompileShader(gfx.VertexStage, vertexSrc)
	if err != nil {
		return 0, &CompileError{Stage: gfx.VertexStage, Log: err.Error()}
	}
	defer dev.DeleteShader(vert)

	frag, err := dev.CompileShader(gfx.FragmentStage, fragmentSrc)
	if err != nil {
		return 0, &CompileError{Stage: gfx.FragmentStage, Log: err.Error()}
	}
	defer dev.DeleteShader(frag)

	program, err := dev.LinkProgram(vert, frag)
	if err != nil {
		return 0, &LinkError{Log: err.Error()}
	}
	return program, nil
}

// Shader owns one program and the locations of its enabled attributes.
type Shader struct {
	dev       gfx.Device
	program   gfx.Program
	locations map[string]int32
	log       *zap.Logger
}

// New compiles and links a program.
func New(dev gfx.Device, vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := CompileProgram(dev, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	s := &Shader{
		dev:       dev,
		program:   program,
		locations: make(map[string]int32),
		log:       logger.Named("shader"),
	}
	s.log.Debug("program linked", zap.Uint32("program", uint32(program)))
	return s, nil
}

// Program returns the program handle.
func (s *Shader) Program() gfx.Program { return s.program }

// Bind makes the program current.
func (s *Shader) Bind() { s.dev.UseProgram(s.program) }

// Release unbinds the array buffer and the program.
func (s *Shader) Release() {
	s.dev.UnbindBuffer()
	s.dev.UseProgram(0)
}

// Close deletes the program. The shader must not be used afterwards.
func (s *Shader) Close() {
	if s.program != 0 {
		s.dev.DeleteProgram(s.program)
		s.program = 0
	}
	clear(s.locations)
}

// uniform looks the location up on every call; names missing from the
// program resolve to -1 and the upload is skipped.
func (s *Shader) uniform(name string) (int32, bool) {
	loc := s.dev.UniformLocation(s.program, name)
	if loc < 0 {
		s.log.Debug("uniform not found", zap.String("name", name))
		return loc, false
	}
	return loc, true
}

// Uniform1i sets an int uniform.
func (s *Shader) Uniform1i(name string, v int32) {
	if loc, ok := s.uniform(name); ok {
		s.dev.Uniform1i(loc, v)
	}
}

// UniformBool sets an int uniform to 0 or 1.
func (s *Shader) UniformBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.Uniform1i(name, i)
}

// Uniform1f sets a float uniform.
func (s *Shader) Uniform1f(name string, v float32) {
	if loc, ok := s.uniform(name); ok {
		s.dev.Uniform1f(loc, v)
	}
}

// Uniform3f sets a vec3 uniform.
func (s *Shader) Uniform3f(name string, v [3]float32) {
	if loc, ok := s.uniform(name); ok {
		s.dev.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// Uniform4x4 sets a mat4 uniform from a column-major matrix.
func (s *Shader) Uniform4x4(name string, m mgl32.Mat4) {
	if loc, ok := s.uniform(name); ok {
		arr := [16]float32(m)
		s.dev.UniformMatrix4fv(loc, &arr)
	}
}

// EnableAttribute resolves and enables a vertex attribute.
func (s *Shader) EnableAttribute(name string) {
	loc := s.dev.AttribLocation(s.program, name)
	if loc < 0 {
		s.log.Debug("attribute not found", zap.String("name", name))
	}
	s.dev.EnableAttrib(loc)
	s.locations[name] = loc
}

// DisableAttribute disables a previously enabled attribute.
func (s *Shader) DisableAttribute(name string) error {
	loc, ok := s.locations[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotEnabled, name)
	}
	s.dev.DisableAttrib(loc)
	delete(s.locations, name)
	return nil
}

// BindAttribute feeds buffer to an enabled attribute as vec3 data.
func (s *Shader) BindAttribute(name string, buffer gfx.Buffer) error {
	loc, ok := s.locations[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotEnabled, name)
	}
	s.dev.AttribPointer(loc, buffer, 3)
	return nil
}

// DrawPoints draws count points of the given size.
func (s *Shader) DrawPoints(count int, size float32) {
	if count <= 0 {
		return
	}
	s.dev.PointSize(size)
	s.dev.DrawArrays(gfx.Points, 0, int32(count))
}

// DrawLines draws count vertices as line segments.
func (s *Shader) DrawLines(count int) {
	if count <= 0 {
		return
	}
	s.dev.DrawArrays(gfx.Lines, 0, int32(count))
}

// DrawTriangles draws count vertices as triangles.
func (s *Shader) DrawTriangles(count int) {
	if count <= 0 {
		return
	}
	s.dev.DrawArrays(gfx.Triangles, 0, int32(count))
}
