// Package renderer provides OpenGL rendering of the sandbox's flat shapes.
//
// Shapes are batched per frame into a triangle buffer and a line buffer
// and drawn in End with one call each.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/engine/shader"
	"github.com/Faultbox/swingline/internal/logger"
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const fragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background mgl32.Vec4
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program
	vao     uint32
	vbo     uint32

	projection    mgl32.Mat4
	pixelsPerUnit float32
	triangles     []float32
	lines         []float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		config:        cfg,
		log:           logger.OrNop(log),
		projection:    mgl32.Ident4(),
		pixelsPerUnit: 48,
		triangles:     make([]float32, 0, 4096),
		lines:         make([]float32, 0, 1024),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])

	var err error
	r.program, err = shader.New(vertexShader, fragmentShader, "uProjection")
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.createBuffers()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize. Width and height are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame drawn through the given projection.
// pixelsPerUnit sizes circle tessellation.
func (r *Renderer) Begin(projection mgl32.Mat4, pixelsPerUnit float32) {
	r.projection = projection
	if pixelsPerUnit > 0 {
		r.pixelsPerUnit = pixelsPerUnit
	}
	r.triangles = r.triangles[:0]
	r.lines = r.lines[:0]
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// End flushes the frame's batches. Filled shapes draw beneath lines.
func (r *Renderer) End() {
	r.program.Use()
	r.program.SetMat4("uProjection", r.projection)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	r.flush(r.triangles, gl.TRIANGLES)
	r.flush(r.lines, gl.LINES)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Line draws a one pixel line.
func (r *Renderer) Line(a, b mgl64.Vec2, c mgl32.Vec4) {
	r.lines = appendVertex(r.lines, a, c)
	r.lines = appendVertex(r.lines, b, c)
}

// Segment draws a line of the given width in world units.
func (r *Renderer) Segment(a, b mgl64.Vec2, width float64, c mgl32.Vec4) {
	r.triangles = appendQuad(r.triangles, segmentQuad(a, b, width), c)
}

// FillBox draws a filled box rotated by angle radians.
func (r *Renderer) FillBox(center, half mgl64.Vec2, angle float64, c mgl32.Vec4) {
	r.triangles = appendQuad(r.triangles, boxCorners(center, half, angle), c)
}

// StrokeBox draws a box outline rotated by angle radians.
func (r *Renderer) StrokeBox(center, half mgl64.Vec2, angle float64, c mgl32.Vec4) {
	q := boxCorners(center, half, angle)
	for i := range q {
		r.Line(q[i], q[(i+1)%len(q)], c)
	}
}

// Disc draws a filled circle.
func (r *Renderer) Disc(center mgl64.Vec2, radius float64, c mgl32.Vec4) {
	pts := circlePoints(center, radius, circleSegments(radius, r.pixelsPerUnit))
	for i := range pts {
		r.triangles = appendTriangle(r.triangles, center, pts[i], pts[(i+1)%len(pts)], c)
	}
}

// Circle draws a circle outline.
func (r *Renderer) Circle(center mgl64.Vec2, radius float64, c mgl32.Vec4) {
	pts := circlePoints(center, radius, circleSegments(radius, r.pixelsPerUnit))
	for i := range pts {
		r.Line(pts[i], pts[(i+1)%len(pts)], c)
	}
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func (r *Renderer) flush(buf []float32, mode uint32) {
	if len(buf) == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(buf)/floatsPerVertex))
}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("batch buffers created",
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
	)
}
