package render

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
)

// ColorSource yields the foreground color of a text column at animation time
// t. Columns are glyph-space (offsets into the rendered text), so gradient
// colors travel with the glyphs they were sampled for.
type ColorSource interface {
	At(col int, t float64) (r, g, b uint8)
}

// Solid paints every glyph pixel one color.
type Solid struct{ R, G, B uint8 }

func (s Solid) At(int, float64) (uint8, uint8, uint8) { return s.R, s.G, s.B }

const rampSteps = 256

type ramp [rampSteps][3]uint8

// rampStops lists the anchor colors of each named ramp; init blends them
// into lookup tables.
var rampStops = map[string][]string{
	"rainbow": {"#FF0000", "#FFD000", "#33FF00", "#00FFD5", "#0033FF", "#CC00FF", "#FF0000"},
	"fire":    {"#3B0A00", "#C72C05", "#FF9A00", "#FFE808"},
	"ocean":   {"#001B48", "#02457A", "#018ABE", "#97CADB"},
	"forest":  {"#0A3306", "#3D8B37", "#A4DE02"},
	"sunset":  {"#2C0735", "#B4436C", "#F5A65B", "#FFD689"},
	"ice":     {"#FFFFFF", "#A6E1FA", "#0E6BA8"},
}

var ramps = map[string]*ramp{}

func init() {
	for name, stops := range rampStops {
		r := &ramp{}
		segs := len(stops) - 1
		for i := 0; i != rampSteps; i++ {
			u := float64(i) / float64(rampSteps-1) * float64(segs)
			seg := int(u)
			if seg >= segs {
				seg = segs - 1
			}
			c1, _ := colorful.Hex(stops[seg])
			c2, _ := colorful.Hex(stops[seg+1])
			r[i][0], r[i][1], r[i][2] = c1.BlendLab(c2, u-float64(seg)).Clamped().RGB255()
		}
		ramps[name] = r
	}
}

// RampNames lists the known gradient ramps.
func RampNames() []string {
	out := make([]string, 0, len(ramps))
	for k := range ramps {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Gradient samples a named ramp across the rendered text width. Shift moves
// the sampling phase over time (ramp px/s); Reversed samples backwards.
type Gradient struct {
	lut      *ramp
	width    int
	shift    float64
	reversed bool
}

// NewGradient builds the source for a named ramp over width text columns.
// Unknown names fall back to rainbow so rendering never fails.
func NewGradient(name string, width int, shift float64, reversed bool) *Gradient {
	lut, ok := ramps[name]
	if !ok {
		log.Warn().Str("gradient", name).Msg("unknown gradient; using rainbow")
		lut = ramps["rainbow"]
	}
	if width < 1 {
		width = 1
	}
	return &Gradient{lut: lut, width: width, shift: shift, reversed: reversed}
}

func (g *Gradient) At(col int, t float64) (uint8, uint8, uint8) {
	u := (float64(col) + g.shift*t) / float64(g.width)
	u -= math.Floor(u)
	if g.reversed {
		u = 1 - u
	}
	i := int(u * float64(rampSteps-1))
	c := g.lut[i]
	return c[0], c[1], c[2]
}
