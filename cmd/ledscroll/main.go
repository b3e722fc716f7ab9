package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sjelinsky/ledscroll/internal/config"
	"github.com/sjelinsky/ledscroll/internal/engine"
	"github.com/sjelinsky/ledscroll/internal/preview"
	"github.com/sjelinsky/ledscroll/internal/render"
)

func main() {
	def := config.Default()

	// ---- Flags (remain usable; -config replaces defaults, explicit flags still win) ----
	var (
		text        = flag.String("text", def.Text, "text to display")
		width       = flag.Int("width", def.Width, "matrix width in pixels")
		height      = flag.Int("height", def.Height, "matrix height in pixels")
		fontPath    = flag.String("font", "", "path to a .ttf/.ttc font (bundled Go Regular if empty)")
		fontSize    = flag.Float64("font-size", def.FontSize, "font size in points")
		emojiFont   = flag.String("emoji-font", "", "path to an emoji-capable font")
		emojiShift  = flag.Int("emoji-shift", 0, "vertical tweak for emoji glyphs (px)")
		colorMode   = flag.String("color-mode", def.ColorMode, "solid | gradient")
		colorCSV    = flag.String("color", "255,255,255", "solid text color as R,G,B")
		bgCSV       = flag.String("background", "0,0,0", "background color as R,G,B")
		gradient    = flag.String("gradient", "rainbow", "gradient name: "+strings.Join(render.RampNames(), " | "))
		gradRev     = flag.Bool("gradient-reverse", false, "reverse the gradient direction")
		gradShift   = flag.Float64("gradient-shift", 0, "gradient drift in px/s")
		motion      = flag.String("motion", def.Motion, "scroll | static")
		direction   = flag.String("direction", def.Direction, "left | right")
		speed       = flag.Float64("speed", def.Speed, "scroll speed in px/s")
		crisp       = flag.Bool("crisp", def.Crisp, "hard 1-bit glyph edges (no anti-aliasing)")
		layoutOrder = flag.String("layout", def.Layout, "progressive | serpentine")
		mode        = flag.String("mode", def.Mode, "simple | ddp | wled")
		host        = flag.String("host", def.Host, "target host")
		port        = flag.Int("port", 0, "target port (0 picks the mode default)")
		ddpChannel  = flag.Int("ddp-channel", 1, "DDP destination channel id")
		wledTimeout = flag.Int("wled-timeout", 2, "WLED realtime hold in seconds")
		addr        = flag.String("addr", ":8080", "HTTP listen address (empty disables preview and health)")
		previewFPS  = flag.Int("preview-fps", 30, "preview feed frame rate")
		configPath  = flag.String("config", "", "path to a saved request (yaml)")
		savePath    = flag.String("save", "", "write the effective request to this file and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load saved request (optional) ----
	cfg := def
	if *configPath != "" {
		if c, err := config.Load(*configPath); err != nil {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		} else {
			cfg = *c
		}
	}

	// ---- Effective request (explicitly set flags override the file) ----
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			cfg.Text = *text
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "font":
			cfg.FontPath = *fontPath
		case "font-size":
			cfg.FontSize = *fontSize
		case "emoji-font":
			cfg.EmojiFontPath = *emojiFont
		case "emoji-shift":
			cfg.EmojiShift = *emojiShift
		case "color-mode":
			cfg.ColorMode = *colorMode
		case "color":
			cfg.Color, flagErr = parseRGB(*colorCSV)
		case "background":
			cfg.Background, flagErr = parseRGB(*bgCSV)
		case "gradient":
			cfg.Gradient = *gradient
		case "gradient-reverse":
			cfg.GradientRev = *gradRev
		case "gradient-shift":
			cfg.GradientShift = *gradShift
		case "motion":
			cfg.Motion = *motion
		case "direction":
			cfg.Direction = *direction
		case "speed":
			cfg.Speed = *speed
		case "crisp":
			cfg.Crisp = *crisp
		case "layout":
			cfg.Layout = *layoutOrder
		case "mode":
			cfg.Mode = *mode
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "ddp-channel":
			cfg.DDPChannel = *ddpChannel
		case "wled-timeout":
			cfg.WLEDTimeout = *wledTimeout
		}
		if flagErr != nil {
			log.Fatal().Err(flagErr).Str("flag", f.Name).Msg("bad flag value")
		}
	})

	if *savePath != "" {
		if err := config.Save(*savePath, &cfg); err != nil {
			log.Fatal().Err(err).Str("path", *savePath).Msg("config save failed")
		}
		log.Info().Str("path", *savePath).Msg("request saved")
		return
	}

	// ---- Session ----
	eng := engine.New()
	if err := eng.Start(cfg); err != nil {
		log.Fatal().Err(err).Msg("session start failed")
	}

	// ---- Preview feed & HTTP routes ----
	stop := make(chan struct{})
	var srv *http.Server
	if *addr != "" {
		state := preview.NewState(eng, *previewFPS)
		go state.RunFeed(stop)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", state.HandleFrames)
		mux.HandleFunc("/healthz", state.HandleHealth)

		srv = &http.Server{
			Addr:         *addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", *addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	close(stop)
	eng.Stop()
	select {
	case <-eng.Done():
	case <-time.After(3 * time.Second):
		log.Warn().Msg("session did not stop in time")
	}
	if srv != nil {
		_ = srv.Close()
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func parseRGB(s string) (config.RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return config.RGB{}, fmt.Errorf("want R,G,B, got %q", s)
	}
	var c config.RGB
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return config.RGB{}, fmt.Errorf("channel %d out of range in %q", i+1, s)
		}
		c[i] = uint8(v)
	}
	return c, nil
}
