package render

import (
	"os"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Faces holds the resolved text faces for one session.
type Faces struct {
	Primary font.Face
	Emoji   font.Face // nil when no emoji font is configured or it failed to load
	Shift   int       // extra baseline px applied to emoji glyphs

	primaryFont *sfnt.Font
	emojiFont   *sfnt.Font
}

// LoadFaces resolves font paths into faces. Loading never fails: a missing or
// unparsable primary font falls back to the bundled Go Regular face, and a
// bad emoji font is skipped.
func LoadFaces(path string, size float64, emojiPath string, emojiShift int) Faces {
	if size <= 0 {
		size = 14
	}
	f := Faces{Shift: emojiShift}
	if path != "" {
		f.Primary, f.primaryFont = fileFace(path, size)
	}
	if f.Primary == nil {
		f.Primary, f.primaryFont = bundledFace(size)
	}
	if emojiPath != "" {
		f.Emoji, f.emojiFont = fileFace(emojiPath, size)
	}
	return f
}

// For picks the face and baseline shift for one rune.
func (f Faces) For(r rune) (font.Face, int) {
	if f.Emoji != nil && IsEmoji(r) {
		return f.Emoji, f.Shift
	}
	return f.Primary, 0
}

// Has reports whether the face chosen for r actually maps it to a glyph.
// Unmapped runes would otherwise draw the font's .notdef box.
func (f Faces) Has(r rune) bool {
	ft := f.primaryFont
	face := f.Primary
	if f.Emoji != nil && IsEmoji(r) {
		ft, face = f.emojiFont, f.Emoji
	}
	if ft != nil {
		x, err := ft.GlyphIndex(nil, r)
		return err == nil && x != 0
	}
	_, ok := face.GlyphAdvance(r)
	return ok
}

func fileFace(path string, size float64) (font.Face, *sfnt.Font) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("font read failed; using fallback")
		return nil, nil
	}
	ft, err := opentype.Parse(b)
	if err != nil {
		// .ttc collections carry several fonts; take the first.
		coll, cerr := sfnt.ParseCollection(b)
		if cerr != nil || coll.NumFonts() == 0 {
			log.Warn().Err(err).Str("path", path).Msg("font parse failed; using fallback")
			return nil, nil
		}
		if ft, cerr = coll.Font(0); cerr != nil {
			log.Warn().Err(cerr).Str("path", path).Msg("font collection unreadable; using fallback")
			return nil, nil
		}
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("font face failed; using fallback")
		return nil, nil
	}
	return face, ft
}

func bundledFace(size float64) (font.Face, *sfnt.Font) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13, nil
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13, nil
	}
	return face, ft
}

// emojiTable covers the common emoji blocks. Pictographs outside these render
// with the primary face like any other rune.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26ff, Stride: 1}, // misc symbols
		{Lo: 0x2700, Hi: 0x27bf, Stride: 1}, // dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1f1e6, Hi: 0x1f1ff, Stride: 1}, // regional indicators
		{Lo: 0x1f300, Hi: 0x1f5ff, Stride: 1}, // symbols & pictographs
		{Lo: 0x1f600, Hi: 0x1f64f, Stride: 1}, // emoticons
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1}, // transport
		{Lo: 0x1f900, Hi: 0x1f9ff, Stride: 1}, // supplemental
		{Lo: 0x1fa70, Hi: 0x1faff, Stride: 1}, // extended-A
	},
}

// IsEmoji reports whether r lives in an emoji block.
func IsEmoji(r rune) bool {
	return unicode.Is(emojiTable, r)
}
