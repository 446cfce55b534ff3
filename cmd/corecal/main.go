package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SturdyFool10/CoreCalendar/internal/capture"
	"github.com/SturdyFool10/CoreCalendar/internal/config"
	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
	"github.com/SturdyFool10/CoreCalendar/internal/render"
	"github.com/SturdyFool10/CoreCalendar/internal/store"
	"github.com/SturdyFool10/CoreCalendar/internal/view"
	"github.com/SturdyFool10/CoreCalendar/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	day        string
	out        string
}

func main() {
	appLog.Info("corecal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"min_event_minutes", conf.MinEventMinutes,
		"snapshot_enabled", conf.Snapshot.Enabled,
		"calendars", len(conf.Calendars),
		"events", len(conf.Events),
		"recurring", len(conf.Recurring),
		"once", flags.once,
	)

	st := store.New()
	seedStore(st, conf)
	planner := view.NewPlanner(st, conf.MinEventMinutes)

	if flags.once {
		if err := renderOnce(planner, conf, flags); err != nil {
			appLog.Error("render failed", err)
			os.Exit(1)
		}
		appLog.Sync()
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if conf.Snapshot.Enabled {
		if err := os.MkdirAll(conf.Snapshot.Dir, 0o755); err != nil {
			appLog.Error("failed to create snapshot dir", err, "dir", conf.Snapshot.Dir)
			conf.Snapshot.Enabled = false
		}
	}

	srv := web.NewServer(conf, st, planner)
	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	// Refresh loop: each tick recomputes today, tells connected viewer
	// clients, and refreshes the PNG snapshot.
	c := cron.New()
	tick := func() {
		now := time.Now()
		loc := view.LocationOrUTC(conf.Timezone)
		day := model.DateOf(now.In(loc))

		srv.NotifyLayoutChanged(day)

		if conf.Snapshot.Enabled {
			err := capture.DayPNG(ctx, capture.Options{
				URL:        viewerURL(conf.Listen),
				OutputPath: filepath.Join(conf.Snapshot.Dir, "snapshot.png"),
				Width:      conf.Snapshot.Width,
				Height:     conf.Snapshot.Height,
			})
			if err != nil {
				appLog.Error("snapshot capture failed", err)
			}
		}
	}
	if _, err := c.AddFunc(conf.RefreshCron, tick); err != nil {
		appLog.Error("invalid refresh schedule, using every minute", err, "refresh", conf.RefreshCron)
		if _, err := c.AddFunc("* * * * *", tick); err != nil {
			appLog.Error("failed to schedule refresh", err)
		}
	}
	c.Start()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	<-c.Stop().Done()

	appLog.Info("corecal exiting")
	appLog.Sync()
}

// renderOnce writes one day sheet as SVG and exits. Useful for cron
// jobs and debugging without running the server.
func renderOnce(planner *view.Planner, conf *config.Config, flags flagConfig) error {
	loc := view.LocationOrUTC(conf.Timezone)
	now := time.Now()

	day := model.DateOf(now.In(loc))
	if flags.day != "" {
		parsed, err := model.ParseDate(flags.day)
		if err != nil {
			return err
		}
		day = parsed
	}

	sheet := planner.DaySheet(day, loc, now)
	doc := render.DaySheetSVG(sheet, render.SVGOptions{
		Width:  conf.Snapshot.Width,
		Height: conf.Snapshot.Height,
		Gutter: conf.Gutter,
	})

	if err := os.WriteFile(flags.out, []byte(doc), 0o644); err != nil {
		return err
	}
	appLog.Info("rendered day sheet",
		"day", day.String(),
		"out", flags.out,
		"events", len(sheet.Boxes),
		"all_day", len(sheet.AllDay),
		"skipped", sheet.Skipped,
	)
	return nil
}

// seedStore loads the config file's calendars, events, and recurring
// definitions. A bad entry is skipped with a log line, never fatal.
func seedStore(st *store.Store, conf *config.Config) {
	for _, cal := range conf.Calendars {
		if _, err := st.AddCalendar(cal); err != nil {
			appLog.Error("config: skipping calendar", err, "id", cal.ID, "name", cal.Name)
		}
	}
	for _, ev := range conf.Events {
		if _, err := st.AddEvent(ev); err != nil {
			appLog.Error("config: skipping event", err, "id", ev.ID, "title", ev.Title)
		}
	}
	for _, def := range conf.Recurring {
		if _, err := st.AddRecurring(def); err != nil {
			appLog.Error("config: skipping recurring definition", err, "id", def.ID, "title", def.Title)
		}
	}
	appLog.Info("store seeded",
		"calendars", len(st.Calendars()),
		"events", len(st.ListEvents()),
		"recurring", len(st.ListRecurring()),
	)
}

// viewerURL builds the self-capture URL from the listen address.
func viewerURL(listen string) string {
	if strings.HasPrefix(listen, ":") {
		return "http://127.0.0.1" + listen + "/"
	}
	return "http://" + listen + "/"
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Render one day sheet to -out and exit")
	flag.StringVar(&cfg.day, "day", "", "Day to render in -once mode (YYYY-MM-DD, default today)")
	flag.StringVar(&cfg.out, "out", "day.svg", "Output path for -once mode")

	flag.Parse()

	return cfg
}
