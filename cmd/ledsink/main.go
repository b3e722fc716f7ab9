package main

import (
	"flag"
	"image"
	"image/color"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/sjelinsky/ledscroll/internal/transport"
)

func main() {
	// ---- Flags ----
	var (
		listen  = flag.String("listen", ":7777", "UDP listen address")
		pixels  = flag.Int("pixels", 1024, "LED count when packets carry no geometry")
		console = flag.Bool("console", false, "print frames to the console instead of SPI")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	laddr, err := net.ResolveUDPAddr("udp", *listen)
	if err != nil {
		log.Fatal().Err(err).Str("listen", *listen).Msg("bad listen address")
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		log.Fatal().Err(err).Str("listen", *listen).Msg("listen failed")
	}

	s := &sink{
		drawer: newDrawer(*pixels, *console),
		frame:  make([]byte, *pixels*3),
	}

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		conn.Close()
	}()

	log.Info().Str("listen", *listen).Int("pixels", *pixels).Msg("sink listening")

	// ---- Receive loop ----
	buf := make([]byte, 65535)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}
		d, err := transport.Parse(buf[:n])
		if err != nil {
			log.Debug().Err(err).Int("bytes", n).Msg("packet dropped")
			continue
		}
		s.ingest(d)
	}

	if err := s.drawer.Halt(); err != nil {
		log.Debug().Err(err).Msg("halt")
	}
}

// sink accumulates packet payloads into a frame and draws it on apply.
type sink struct {
	drawer display.Drawer
	frame  []byte
}

func (s *sink) ingest(d transport.Decoded) {
	// Simple packets carry geometry; resize to match the sender.
	if d.W > 0 && d.H > 0 && d.W*d.H*3 != len(s.frame) {
		s.frame = make([]byte, d.W*d.H*3)
		log.Info().Int("w", d.W).Int("h", d.H).Msg("frame geometry adopted")
	}
	if d.Offset >= len(s.frame) {
		log.Debug().Int("offset", d.Offset).Msg("payload outside the frame, dropped")
		return
	}
	copy(s.frame[d.Offset:], d.Data)
	if d.Apply {
		s.draw()
	}
}

func (s *sink) draw() {
	img := image.NewNRGBA(image.Rect(0, 0, len(s.frame)/3, 1))
	for x := 0; x < img.Rect.Max.X; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: s.frame[x*3], G: s.frame[x*3+1], B: s.frame[x*3+2], A: 255})
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), img, image.Point{}); err != nil {
		log.Warn().Err(err).Msg("draw failed")
	}
}

// newDrawer opens the first SPI port and attaches an NRZ LED strip to it,
// falling back to a console renderer when no hardware is present.
func newDrawer(pixels int, console bool) display.Drawer {
	if console {
		return screen.New(pixels)
	}
	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("host init failed, printing to the console")
		return screen.New(pixels)
	}
	ss, err := spireg.Open("")
	if err != nil {
		log.Warn().Err(err).Msg("no SPI port, printing to the console")
		return screen.New(pixels)
	}
	d, err := nrzled.NewSPI(ss, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		// 3 SPI bits per 800kHz NRZ bit, plus reset margin.
		Freq: 2500 * physic.KiloHertz,
	})
	if err != nil {
		log.Warn().Err(err).Msg("nrzled init failed, printing to the console")
		_ = ss.Close()
		return screen.New(pixels)
	}
	_ = d.Halt()
	return d
}
