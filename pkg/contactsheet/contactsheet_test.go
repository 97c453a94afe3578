package contactsheet

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/vidseq/pkg/adapters/ggrenderer"
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/mocks"
)

func frames(n int, shape frame.Shape) []frame.Frame {
	out := make([]frame.Frame, n)
	for i := range out {
		data := make([]uint8, shape.Elements())
		for j := range data {
			data[j] = uint8(40 * (i + 1))
		}
		f, err := frame.Wrap(shape, data)
		if err != nil {
			panic(err)
		}
		out[i] = f
	}
	return out
}

func TestSize(t *testing.T) {
	shape := frame.Shape{Height: 10, Width: 20, Channels: 3}
	opts := Options{Columns: 3, Scale: 2, Gap: 4, Labels: true}

	w, h := Size(5, shape, opts)
	// 3 columns of 40px, 2 rows of 20+16px, gaps around and between.
	if w != 3*40+4*4 || h != 2*36+3*4 {
		t.Errorf("unexpected size %dx%d", w, h)
	}

	w, _ = Size(2, shape, opts)
	if w != 2*40+3*4 {
		t.Errorf("short row should shrink the sheet, got width %d", w)
	}
}

func TestRender_Grid(t *testing.T) {
	r := &mocks.Renderer{}
	shape := frame.Shape{Height: 4, Width: 6, Channels: 3}

	_, err := Render(r, frames(7, shape), Options{Columns: 3, Gap: 2, Labels: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(r.Canvases) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(r.Canvases))
	}
	c := r.Canvases[0]
	if len(c.Images) != 7 {
		t.Fatalf("expected 7 images drawn, got %d", len(c.Images))
	}
	if c.Images[0] != image.Pt(2, 2) {
		t.Errorf("first cell at %v", c.Images[0])
	}
	if c.Images[4] != image.Pt(2+8, 2+(4+labelHeight)+2) {
		t.Errorf("fifth cell at %v", c.Images[4])
	}
	if len(c.Texts) != 7 || c.Texts[6] != "6" {
		t.Errorf("unexpected labels %v", c.Texts)
	}
}

func TestRender_LabelStripAndBorder(t *testing.T) {
	r := &mocks.Renderer{}
	shape := frame.Shape{Height: 4, Width: 6, Channels: 3}

	opts := Options{Columns: 2, Gap: 2, Labels: true, LabelBackground: color.Gray{Y: 60}, Border: color.White}
	if _, err := Render(r, frames(3, shape), opts); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	c := r.Canvases[0]
	if len(c.Rects) != 3 || len(c.Strokes) != 3 {
		t.Fatalf("expected 3 label strips and 3 outlines, got %d and %d", len(c.Rects), len(c.Strokes))
	}
	if c.Strokes[1] != image.Rect(10, 2, 16, 6) {
		t.Errorf("second outline at %v", c.Strokes[1])
	}
	if c.Rects[0] != image.Rect(2, 6, 8, 6+labelHeight) {
		t.Errorf("first label strip at %v", c.Rects[0])
	}

	r = &mocks.Renderer{}
	if _, err := Render(r, frames(3, shape), Options{Columns: 2, Labels: true}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(r.Canvases[0].Rects) != 0 || len(r.Canvases[0].Strokes) != 0 {
		t.Error("expected no strips or outlines without colors")
	}
}

func TestRender_Pixels(t *testing.T) {
	shape := frame.Shape{Height: 4, Width: 4, Channels: 3}
	img, err := Render(ggrenderer.New(), frames(2, shape), Options{Columns: 2, Scale: 2, Gap: 1, Background: color.Black})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := color.RGBAModel.Convert(img.At(1+8+1+3, 1+3)).(color.RGBA)
	if got.R != 80 {
		t.Errorf("expected second frame value 80, got %v", got)
	}
	bg := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if bg.R != 0 {
		t.Errorf("expected background at origin, got %v", bg)
	}
}

func TestRender_Errors(t *testing.T) {
	r := &mocks.Renderer{}

	if _, err := Render(r, nil, DefaultOptions()); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	mixed := append(frames(1, frame.Shape{Height: 2, Width: 2, Channels: 3}),
		frames(1, frame.Shape{Height: 3, Width: 3, Channels: 3})...)
	if _, err := Render(r, mixed, DefaultOptions()); !errors.Is(err, frame.ErrMalformed) {
		t.Errorf("expected frame.ErrMalformed for mixed shapes, got %v", err)
	}
}
