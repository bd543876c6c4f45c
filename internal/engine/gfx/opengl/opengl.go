// Package opengl implements gfx.Device with go-gl.
package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/logger"
)

// Device implements gfx.Device on an OpenGL 4.1 core context.
// IMPORTANT: New must be called AFTER the context is current.
type Device struct {
	vao uint32
}

var _ gfx.Device = (*Device)(nil)

// New loads GL function pointers and sets up default state.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Core profile refuses attribute pointers without a bound VAO
	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return d, nil
}

// Restore rebinds the shared VAO and depth test. Call it before drawing
// when another renderer shares the context.
func (d *Device) Restore() {
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

// Close deletes the shared VAO.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// CreateBuffer uploads data into a new static array buffer.
func (d *Device) CreateBuffer(data []float32) (gfx.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, errors.New("glGenBuffers returned 0")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gfx.Buffer(id), nil
}

// DeleteBuffer releases a buffer. Zero is ignored.
func (d *Device) DeleteBuffer(b gfx.Buffer) {
	if b == 0 {
		return
	}
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// CompileShader compiles one stage.
func (d *Device) CompileShader(stage gfx.Stage, source string) (gfx.Shader, error) {
	var kind uint32
	switch stage {
	case gfx.VertexStage:
		kind = gl.VERTEX_SHADER
	case gfx.FragmentStage:
		kind = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported shader stage %d", stage)
	}

	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, errors.New(log)
	}
	return gfx.Shader(shader), nil
}

// DeleteShader releases a stage object.
func (d *Device) DeleteShader(s gfx.Shader) {
	if s != 0 {
		gl.DeleteShader(uint32(s))
	}
}

// LinkProgram links two compiled stages. The program is deleted on failure.
func (d *Device) LinkProgram(vertex, fragment gfx.Shader) (gfx.Program, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, errors.New(log)
	}

	gl.DetachShader(program, uint32(vertex))
	gl.DetachShader(program, uint32(fragment))
	return gfx.Program(program), nil
}

// DeleteProgram releases a program.
func (d *Device) DeleteProgram(p gfx.Program) {
	if p != 0 {
		gl.DeleteProgram(uint32(p))
	}
}

// UseProgram makes p current. Zero unbinds.
func (d *Device) UseProgram(p gfx.Program) { gl.UseProgram(uint32(p)) }

// UniformLocation returns -1 for unknown or inactive uniforms.
func (d *Device) UniformLocation(p gfx.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

// UniformMatrix4fv uploads a column-major matrix.
func (d *Device) UniformMatrix4fv(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// AttribLocation returns -1 for unknown or inactive attributes.
func (d *Device) AttribLocation(p gfx.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) EnableAttrib(loc int32) {
	if loc >= 0 {
		gl.EnableVertexAttribArray(uint32(loc))
	}
}

func (d *Device) DisableAttrib(loc int32) {
	if loc >= 0 {
		gl.DisableVertexAttribArray(uint32(loc))
	}
}

// AttribPointer binds b as the source for loc.
func (d *Device) AttribPointer(loc int32, b gfx.Buffer, size int32) {
	if loc < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, 0, nil)
}

// UnbindBuffer clears the array buffer binding.
func (d *Device) UnbindBuffer() { gl.BindBuffer(gl.ARRAY_BUFFER, 0) }

// PointSize sets the rasterized point size.
func (d *Device) PointSize(size float32) { gl.PointSize(size) }

// DrawArrays draws count vertices starting at first.
func (d *Device) DrawArrays(mode gfx.Primitive, first, count int32) {
	var glMode uint32
	switch mode {
	case gfx.Points:
		glMode = gl.POINTS
	case gfx.Lines:
		glMode = gl.LINES
	case gfx.Triangles:
		glMode = gl.TRIANGLES
	default:
		logger.Warn("unknown primitive", zap.Int("mode", int(mode)))
		return
	}
	gl.DrawArrays(glMode, first, count)
}

// ClearColor sets the background color.
func (d *Device) ClearColor(r, g, b float32) { gl.ClearColor(r, g, b, 1.0) }

// Clear clears color and depth.
func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

// Viewport resizes the viewport.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return "no info log"
	}
	buf := make([]byte, length)
	read(&buf[0])
	// trailing NUL
	if buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}
