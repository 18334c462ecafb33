package areagraph

import (
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// roomPalette cycles through fill colors so adjacent rooms are visually
// distinguishable in debug renders.
var roomPalette = []color.RGBA{
	{R: 141, G: 211, B: 199, A: 255},
	{R: 255, G: 255, B: 179, A: 255},
	{R: 190, G: 186, B: 218, A: 255},
	{R: 251, G: 128, B: 114, A: 255},
	{R: 128, G: 177, B: 211, A: 255},
	{R: 253, G: 180, B: 98, A: 255},
	{R: 179, G: 222, B: 105, A: 255},
	{R: 252, G: 205, B: 229, A: 255},
}

// MapRenderer draws the merged graph's room polygons and passages as vector
// graphics for visual inspection. Coordinates stay in pixel space with the y
// axis flipped so the render matches the input image orientation.
type MapRenderer struct {
	Graph      *AreaGraph
	Padding    float64           // padding in pixels around the map bounds
	Resolution canvas.Resolution // resolution for PNG output
}

// NewMapRenderer creates a renderer with default padding and PNG resolution.
func NewMapRenderer(g *AreaGraph) *MapRenderer {
	return &MapRenderer{
		Graph:      g,
		Padding:    20.0,
		Resolution: canvas.DPI(150),
	}
}

// canvasRenderer is the drawing surface shared by the SVG and PNG backends.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the map as an SVG to the provided writer.
func (r *MapRenderer) RenderToSVG(w io.Writer) error {
	minX, minY, maxX, maxY := r.bounds()

	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, maxY, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the map as a PNG to the provided writer.
func (r *MapRenderer) RenderToPNG(w io.Writer) error {
	minX, minY, maxX, maxY := r.bounds()

	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, maxY, width, height)
	return png.Encode(w, rast)
}

// renderToCanvas draws rooms, outlines and passages onto a canvas renderer
// (shared logic for SVG and PNG).
func (r *MapRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, maxY, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	// Image rows grow downward; the canvas y axis grows upward.
	toCanvas := func(p orb.Point) (float64, float64) {
		return (p[0] - minX) + r.Padding, (maxY - p[1]) + r.Padding
	}

	ringPath := func(ring orb.Ring) *canvas.Path {
		cp := &canvas.Path{}
		for i, p := range ring {
			cx, cy := toCanvas(p)
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		cp.Close()
		return cp
	}

	for i, v := range r.Graph.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}

		fillStyle := canvas.DefaultStyle
		fillStyle.Fill = canvas.Paint{Color: roomPalette[i%len(roomPalette)]}
		fillStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
		renderer.RenderPath(ringPath(v.Polygon), fillStyle, canvas.Identity)

		outlineStyle := canvas.DefaultStyle
		outlineStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		outlineStyle.Stroke = canvas.Paint{Color: canvas.Black}
		outlineStyle.StrokeWidth = 1.0
		renderer.RenderPath(ringPath(v.Polygon), outlineStyle, canvas.Identity)
	}

	passageStyle := canvas.DefaultStyle
	passageStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	passageStyle.Stroke = canvas.Paint{Color: color.RGBA{R: 220, G: 20, B: 60, A: 255}}
	passageStyle.StrokeWidth = 2.0

	markerStyle := canvas.DefaultStyle
	markerStyle.Fill = canvas.Paint{Color: color.RGBA{R: 220, G: 20, B: 60, A: 255}}
	markerStyle.Stroke = canvas.Paint{Color: canvas.Black}
	markerStyle.StrokeWidth = 0.5

	for _, pp := range r.Graph.CollectPassagePoints() {
		ax, ay := toCanvas(pp.A)
		bx, by := toCanvas(pp.B)

		line := &canvas.Path{}
		line.MoveTo(ax, ay)
		line.LineTo(bx, by)
		renderer.RenderPath(line, passageStyle, canvas.Identity)

		for _, c := range [][2]float64{{ax, ay}, {bx, by}} {
			marker := canvas.Circle(2.0).Translate(c[0], c[1])
			renderer.RenderPath(marker, markerStyle, canvas.Identity)
		}
	}
}

// bounds returns the pixel-space bounding box of every room polygon and
// passage position.
func (r *MapRenderer) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	expand := func(p orb.Point) {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}

	for _, v := range r.Graph.Vertices {
		for _, p := range v.Polygon {
			expand(p)
		}
	}
	for _, p := range r.Graph.Passages {
		expand(p.Position)
	}

	if minX > maxX {
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}
