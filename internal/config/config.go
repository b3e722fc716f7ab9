package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	ModeSimple = "simple"
	ModeDDP    = "ddp"
	ModeWLED   = "wled"
)

// Well-known destination ports per transport mode.
const (
	PortSimple = 7777
	PortDDP    = 4048
	PortWLED   = 21324
)

// Color modes.
const (
	ColorSolid    = "solid"
	ColorGradient = "gradient"
)

// Motion modes.
const (
	MotionScroll = "scroll"
	MotionStatic = "static"
)

// Scroll directions.
const (
	DirLeft  = "left"
	DirRight = "right"
)

// MaxDim bounds matrix width and height: the simple wire format encodes each
// as a single byte.
const MaxDim = 255

// Validation sentinels. Validate wraps these with field detail; callers test
// with errors.Is.
var (
	ErrEmptyText     = errors.New("text is empty")
	ErrBadDimensions = errors.New("matrix dimensions out of range")
	ErrUnknownMode   = errors.New("unknown transport mode")
	ErrUnknownLayout = errors.New("unknown layout")
	ErrUnknownColor  = errors.New("unknown color mode")
	ErrUnknownMotion = errors.New("unknown motion mode")
	ErrBadDirection  = errors.New("unknown scroll direction")
	ErrNoHost        = errors.New("destination host is empty")
	ErrBadPort       = errors.New("port out of range")
)

// RGB is a color triplet, serialized as [r, g, b].
type RGB [3]uint8

// Display is one start request: everything a session needs to render and
// stream text. A session treats its copy as immutable.
type Display struct {
	Text string `yaml:"text"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	FontPath      string  `yaml:"font_path,omitempty"` // .ttf/.otf/.ttc; empty = bundled face
	FontSize      float64 `yaml:"font_size"`
	EmojiFontPath string  `yaml:"emoji_font_path,omitempty"`
	EmojiShift    int     `yaml:"emoji_shift,omitempty"` // baseline px applied to emoji glyphs

	ColorMode     string  `yaml:"color_mode"` // "solid" | "gradient"
	Color         RGB     `yaml:"color"`
	Background    RGB     `yaml:"background"`
	Gradient      string  `yaml:"gradient,omitempty"`          // ramp name
	GradientRev   bool    `yaml:"gradient_reversed,omitempty"` // sample the ramp backwards
	GradientShift float64 `yaml:"gradient_shift,omitempty"`    // ramp px/s

	Motion    string  `yaml:"motion"`    // "scroll" | "static"
	Direction string  `yaml:"direction"` // "left" | "right"
	Speed     float64 `yaml:"speed"`     // px/s
	Crisp     bool    `yaml:"crisp"`

	Layout string `yaml:"layout"` // "progressive" | "serpentine"

	Mode        string `yaml:"mode"` // "simple" | "ddp" | "wled"
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"` // 0 = mode default
	DDPChannel  int    `yaml:"ddp_channel,omitempty"`
	WLEDTimeout int    `yaml:"wled_timeout,omitempty"` // realtime hold, seconds
}

// Default returns the baseline request for a 64x16 serpentine matrix.
func Default() Display {
	return Display{
		Text:      "Hello",
		Width:     64,
		Height:    16,
		FontSize:  14,
		ColorMode: ColorSolid,
		Color:     RGB{255, 255, 255},
		Motion:    MotionScroll,
		Direction: DirLeft,
		Speed:     40,
		Crisp:     true,
		Layout:    "serpentine",
		Mode:      ModeSimple,
		Host:      "192.168.1.181",
	}
}

func Load(path string) (*Display, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Display
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func Save(path string, d *Display) error {
	b, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects structurally invalid requests. Soft fields (speed, font
// size, timeouts, unknown gradient names) are never rejected; Normalize and
// the renderer settle those.
func (d Display) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("text: %w", ErrEmptyText)
	}
	if d.Width <= 0 || d.Height <= 0 || d.Width > MaxDim || d.Height > MaxDim {
		return fmt.Errorf("%dx%d: %w", d.Width, d.Height, ErrBadDimensions)
	}
	switch d.Mode {
	case ModeSimple, ModeDDP, ModeWLED:
	default:
		return fmt.Errorf("mode %q: %w", d.Mode, ErrUnknownMode)
	}
	switch d.Layout {
	case "progressive", "serpentine":
	default:
		return fmt.Errorf("layout %q: %w", d.Layout, ErrUnknownLayout)
	}
	switch d.ColorMode {
	case ColorSolid, ColorGradient:
	default:
		return fmt.Errorf("color mode %q: %w", d.ColorMode, ErrUnknownColor)
	}
	switch d.Motion {
	case MotionScroll, MotionStatic:
	default:
		return fmt.Errorf("motion %q: %w", d.Motion, ErrUnknownMotion)
	}
	switch d.Direction {
	case DirLeft, DirRight:
	default:
		return fmt.Errorf("direction %q: %w", d.Direction, ErrBadDirection)
	}
	if strings.TrimSpace(d.Host) == "" {
		return fmt.Errorf("host: %w", ErrNoHost)
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("port %d: %w", d.Port, ErrBadPort)
	}
	return nil
}

// Normalize returns a copy with soft fields settled: the mode's well-known
// port when unset (wled also reclaims the other modes' defaults, which UIs
// tend to leave behind), scroll speed floored at 1 px/s, font size defaulted,
// the DDP channel defaulted to 1 and the WLED hold clamped to 1..255 s.
func (d Display) Normalize() Display {
	out := d
	if out.Speed < 1 {
		out.Speed = 1
	}
	if out.FontSize <= 0 {
		out.FontSize = 14
	}
	switch out.Mode {
	case ModeWLED:
		if out.Port == 0 || out.Port == PortSimple || out.Port == PortDDP {
			out.Port = PortWLED
		}
	case ModeDDP:
		if out.Port == 0 {
			out.Port = PortDDP
		}
	case ModeSimple:
		if out.Port == 0 {
			out.Port = PortSimple
		}
	}
	if out.ColorMode == ColorGradient && out.Gradient == "" {
		out.Gradient = "rainbow"
	}
	if out.DDPChannel <= 0 || out.DDPChannel > 255 {
		out.DDPChannel = 1
	}
	if out.WLEDTimeout < 1 {
		out.WLEDTimeout = 2
	} else if out.WLEDTimeout > 255 {
		out.WLEDTimeout = 255
	}
	return out
}
