package render

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/sjelinsky/ledscroll/internal/config"
)

// Compositor turns a session's text into logical frames. The glyph coverage
// strip is rendered once up front; each Frame call slices the window for the
// requested animation time and colorizes it.
type Compositor struct {
	w, h int

	mask  *image.Alpha // coverage strip
	maskW int
	textW int
	textX int // column where the text starts inside the strip

	src    ColorSource
	bg     [3]uint8
	crisp  bool
	scroll bool
	right  bool
	speed  float64
	xoff   int // static mode: window column of the strip's left edge
}

// NewCompositor renders the text strip for cfg and returns the per-tick frame
// source. Construction never fails: font trouble falls back to the bundled
// face and unknown gradients degrade to rainbow.
func NewCompositor(cfg config.Display, faces Faces) *Compositor {
	c := &Compositor{
		w:      cfg.Width,
		h:      cfg.Height,
		bg:     [3]uint8(cfg.Background),
		crisp:  cfg.Crisp,
		scroll: cfg.Motion == config.MotionScroll,
		right:  cfg.Direction == config.DirRight,
		speed:  cfg.Speed,
	}

	textW := layoutText(nil, faces, cfg.Text, 0, 0).Ceil()
	if textW < 1 {
		textW = 1
	}
	c.textW = textW

	if c.scroll {
		// Text enters from the right edge; the leading blank region is one
		// window wide so the loop shows a clean gap between passes.
		c.textX = c.w
		c.maskW = textW + c.w
	} else {
		c.maskW = textW
		c.xoff = (c.w - textW) / 2
	}

	c.mask = image.NewAlpha(image.Rect(0, 0, c.maskW, c.h))
	layoutText(c.mask, faces, cfg.Text, c.textX, baselineFor(faces.Primary, cfg.Text, c.h))
	if c.crisp {
		binarize(c.mask)
	}

	if cfg.ColorMode == config.ColorGradient {
		c.src = NewGradient(cfg.Gradient, textW, cfg.GradientShift, cfg.GradientRev)
	} else {
		c.src = Solid{cfg.Color[0], cfg.Color[1], cfg.Color[2]}
	}
	return c
}

// Period returns the scroll cycle length in seconds, 0 when static.
func (c *Compositor) Period() float64 {
	if !c.scroll {
		return 0
	}
	return float64(c.maskW) / c.speed
}

// Frame renders the logical frame at animation time t (seconds) into dst,
// which must match the configured matrix size.
func (c *Compositor) Frame(dst *FrameBuffer, t float64) {
	off := 0
	if c.scroll {
		step := int(math.Floor(c.speed * t))
		if c.right {
			off = floorMod(c.textW-step, c.maskW)
		} else {
			off = floorMod(step, c.maskW)
		}
	}

	for row := 0; row < c.h; row++ {
		mrow := row * c.mask.Stride
		for col := 0; col < c.w; col++ {
			var sc int // strip column
			if c.scroll {
				sc = off + col
				if sc >= c.maskW {
					sc -= c.maskW
				}
			} else {
				sc = col - c.xoff
				if sc < 0 || sc >= c.maskW {
					dst.Set(row, col, c.bg[0], c.bg[1], c.bg[2])
					continue
				}
			}
			switch a := c.mask.Pix[mrow+sc]; a {
			case 0:
				dst.Set(row, col, c.bg[0], c.bg[1], c.bg[2])
			case 255:
				r, g, b := c.src.At(sc-c.textX, t)
				dst.Set(row, col, r, g, b)
			default:
				r, g, b := c.src.At(sc-c.textX, t)
				dst.Set(row, col,
					blend(r, c.bg[0], a),
					blend(g, c.bg[1], a),
					blend(b, c.bg[2], a))
			}
		}
	}
}

// layoutText walks the text once, advancing a pen through per-rune faces and
// kerning. With dst == nil it only measures; otherwise glyph coverage is
// drawn at the given start column and baseline. Runes without a glyph advance
// by a space and draw nothing.
func layoutText(dst *image.Alpha, f Faces, text string, x, baseline int) fixed.Int26_6 {
	pen := fixed.I(x)
	prev := rune(-1)
	var prevFace font.Face
	for _, r := range text {
		face, shift := f.For(r)
		if prev >= 0 && face == prevFace {
			pen += face.Kern(prev, r)
		}
		if !f.Has(r) {
			adv, _ := face.GlyphAdvance(' ')
			pen += adv
			prev, prevFace = r, face
			continue
		}
		adv, _ := face.GlyphAdvance(r)
		if dst != nil {
			d := font.Drawer{
				Dst:  dst,
				Src:  image.Opaque,
				Face: face,
				Dot:  fixed.Point26_6{X: pen, Y: fixed.I(baseline + shift)},
			}
			d.DrawString(string(r))
		}
		pen += adv
		prev, prevFace = r, face
	}
	return pen - fixed.I(x)
}

// baselineFor centers the text's bounding box in the matrix height and
// returns the baseline row.
func baselineFor(face font.Face, text string, h int) int {
	b, _ := font.BoundString(face, text)
	textH := (b.Max.Y - b.Min.Y).Ceil()
	top := (h - textH) / 2
	return top - b.Min.Y.Floor()
}

// binarize thresholds anti-aliased coverage into on/off.
func binarize(m *image.Alpha) {
	for i, a := range m.Pix {
		if a >= 128 {
			m.Pix[i] = 255
		} else {
			m.Pix[i] = 0
		}
	}
}

func blend(fg, bg, a uint8) uint8 {
	return uint8((int(fg)*int(a) + int(bg)*(255-int(a)) + 127) / 255)
}

func floorMod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
