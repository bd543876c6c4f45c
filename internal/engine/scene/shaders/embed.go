// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms positions and forwards per-vertex colors.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader writes the interpolated color, tinted while selected.
//
//go:embed mesh.frag
var MeshFragmentShader string
