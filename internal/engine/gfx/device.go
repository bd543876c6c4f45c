// Package gfx defines the graphics API surface used by the renderer.
package gfx

// Buffer is an opaque handle to a GPU array buffer. Zero is never a valid buffer.
type Buffer uint32

// Shader is a compiled shader stage handle.
type Shader uint32

// Program is a linked shader program handle.
type Program uint32

// Stage identifies a shader pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Primitive is a draw topology.
type Primitive int

const (
	Points Primitive = iota
	Lines
	Triangles
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	default:
		return "unknown"
	}
}

// Device is the subset of a graphics API needed to upload geometry and draw it.
// All methods must be called from the thread that owns the context.
type Device interface {
	CreateBuffer(data []float32) (Buffer, error)
	DeleteBuffer(b Buffer)

	// CompileShader returns the compiler log as error text on failure.
	CompileShader(stage Stage, source string) (Shader, error)
	DeleteShader(s Shader)
	// LinkProgram returns the linker log as error text on failure.
	LinkProgram(vertex, fragment Shader) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)

	UniformLocation(p Program, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4fv(loc int32, m *[16]float32)

	AttribLocation(p Program, name string) int32
	EnableAttrib(loc int32)
	DisableAttrib(loc int32)
	// AttribPointer binds b to loc as tightly packed tuples of size floats.
	AttribPointer(loc int32, b Buffer, size int32)
	UnbindBuffer()

	PointSize(size float32)
	DrawArrays(mode Primitive, first, count int32)
}
