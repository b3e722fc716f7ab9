package render

import (
	"testing"

	"github.com/sjelinsky/ledscroll/internal/config"
)

func TestLoadFacesNeverFails(t *testing.T) {
	f := LoadFaces("/no/such/dir/missing.ttf", 14, "/also/missing.ttc", 3)
	if f.Primary == nil {
		t.Fatal("primary face missing after fallback")
	}
	if f.Emoji != nil {
		t.Fatal("broken emoji font should be skipped, not kept")
	}

	face, shift := f.For('A')
	if face != f.Primary || shift != 0 {
		t.Fatal("plain rune did not resolve to the primary face")
	}

	// A compositor built on the fallback face still renders glyphs.
	cfg := config.Default()
	cfg.Text = "ok"
	cfg.Motion = config.MotionStatic
	c := NewCompositor(cfg, f)
	fb := NewFrameBuffer(cfg.Width, cfg.Height)
	c.Frame(fb, 0)
	for _, p := range fb.Pix {
		if p != 0 {
			return
		}
	}
	t.Fatal("fallback face rendered nothing")
}

func TestEmojiRuneDetection(t *testing.T) {
	for _, r := range []rune{'😀', '🚀', '🧰', '☀'} {
		if !IsEmoji(r) {
			t.Fatalf("%q not detected as emoji", r)
		}
	}
	for _, r := range []rune{'A', 'ß', '7', ' '} {
		if IsEmoji(r) {
			t.Fatalf("%q misdetected as emoji", r)
		}
	}
}

func TestMissingGlyphsRenderBlank(t *testing.T) {
	cfg := config.Default()
	// Private use area runes have no glyph in the bundled face.
	cfg.Text = ""
	cfg.Motion = config.MotionStatic

	c := NewCompositor(cfg, LoadFaces("", cfg.FontSize, "", 0))
	fb := NewFrameBuffer(cfg.Width, cfg.Height)
	c.Frame(fb, 0)
	for i, p := range fb.Pix {
		if p != 0 {
			t.Fatalf("missing glyphs lit byte %d", i)
		}
	}
}
