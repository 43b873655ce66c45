package renderer

import (
	"github.com/spaghettifunk/scaffold/engine/math"
	"github.com/spaghettifunk/scaffold/engine/render"
	"github.com/spaghettifunk/scaffold/engine/resources"
	"github.com/spaghettifunk/scaffold/engine/scene"
)

type rect struct {
	x0, y0, x1, y1 int
}

// screenVertex is a vertex after projection, in window pixels.
type screenVertex struct {
	x, y, depth float32
	colour      math.Vec4
}

func (w *Window) viewportRect(vp *Viewport) rect {
	r := rect{
		x0: vp.actualLeft,
		y0: vp.actualTop,
		x1: vp.actualLeft + vp.actualWidth,
		y1: vp.actualTop + vp.actualHeight,
	}
	r.x0 = math.Clamp(r.x0, 0, int(w.width))
	r.x1 = math.Clamp(r.x1, 0, int(w.width))
	r.y0 = math.Clamp(r.y0, 0, int(w.height))
	r.y1 = math.Clamp(r.y1, 0, int(w.height))
	return r
}

func toByte(c float32) uint8 {
	return uint8(math.Clamp(c*255+0.5, 0, 255))
}

// clear fills the viewport with its background colour and resets depth.
func (w *Window) clear(r rect, c render.ColourValue) {
	red, green, blue, alpha := toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
	for y := r.y0; y < r.y1; y++ {
		row := w.frame.PixOffset(r.x0, y)
		for x := r.x0; x < r.x1; x++ {
			w.frame.Pix[row] = red
			w.frame.Pix[row+1] = green
			w.frame.Pix[row+2] = blue
			w.frame.Pix[row+3] = alpha
			row += 4
			w.depth[y*int(w.width)+x] = 1
		}
	}
}

// renderViewport draws the scene seen by the viewport camera and returns
// the number of triangles drawn. Only cameras of the scene package can be
// rendered, others just get the background cleared.
func (w *Window) renderViewport(vp *Viewport) int {
	r := w.viewportRect(vp)
	if r.x1 <= r.x0 || r.y1 <= r.y0 {
		return 0
	}
	w.clear(r, vp.background)

	cam, ok := vp.camera.(*scene.Camera)
	if !ok {
		return 0
	}
	sm := cam.SceneManager()
	if sm == nil {
		return 0
	}

	viewProjection := cam.ViewMatrix().Mul(cam.ProjectionMatrix())
	drawn := 0
	sm.VisitRenderables(func(mesh *resources.Mesh, world math.Mat4) {
		drawn += w.drawMesh(vp, r, mesh, world.Mul(viewProjection))
	})
	return drawn
}

func (w *Window) drawMesh(vp *Viewport, r rect, mesh *resources.Mesh, mvp math.Mat4) int {
	projected := make([]screenVertex, len(mesh.Vertices))
	visible := make([]bool, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		clip := math.NewVec4FromVec3(v.Position, 1).Transform(mvp)
		// behind the camera or in front of the near plane
		if clip.W <= math.K_FLOAT_EPSILON || clip.Z < -clip.W {
			continue
		}
		visible[i] = true
		ndcX, ndcY, ndcZ := clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W
		projected[i] = screenVertex{
			x:      float32(vp.actualLeft) + (ndcX+1)*0.5*float32(vp.actualWidth),
			y:      float32(vp.actualTop) + (1-ndcY)*0.5*float32(vp.actualHeight),
			depth:  (ndcZ + 1) * 0.5,
			colour: v.Colour,
		}
	}

	drawn := 0
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		if !visible[i0] || !visible[i1] || !visible[i2] {
			continue
		}
		if w.drawTriangle(r, projected[i0], projected[i1], projected[i2]) {
			drawn++
		}
	}
	return drawn
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (px-a.x)*(b.y-a.y) - (py-a.y)*(b.x-a.x)
}

func minf(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxf(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// drawTriangle fills the triangle with depth testing and interpolated
// vertex colours. Both windings are drawn.
func (w *Window) drawTriangle(r rect, v0, v1, v2 screenVertex) bool {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return false
	}

	x0 := math.Clamp(int(minf(v0.x, v1.x, v2.x)), r.x0, r.x1)
	x1 := math.Clamp(int(maxf(v0.x, v1.x, v2.x))+1, r.x0, r.x1)
	y0 := math.Clamp(int(minf(v0.y, v1.y, v2.y)), r.y0, r.y1)
	y1 := math.Clamp(int(maxf(v0.y, v1.y, v2.y))+1, r.y0, r.y1)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	inv := 1 / area
	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float32(x) + 0.5
			b0 := edge(v1, v2, px, py) * inv
			b1 := edge(v2, v0, px, py) * inv
			b2 := edge(v0, v1, px, py) * inv
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			depth := b0*v0.depth + b1*v1.depth + b2*v2.depth
			di := y*int(w.width) + x
			if depth < 0 || depth >= w.depth[di] {
				continue
			}
			w.depth[di] = depth

			c := v0.colour.MulScalar(b0).Add(v1.colour.MulScalar(b1)).Add(v2.colour.MulScalar(b2))
			o := w.frame.PixOffset(x, y)
			w.frame.Pix[o] = toByte(c.X)
			w.frame.Pix[o+1] = toByte(c.Y)
			w.frame.Pix[o+2] = toByte(c.Z)
			w.frame.Pix[o+3] = toByte(c.W)
		}
	}
	return true
}
