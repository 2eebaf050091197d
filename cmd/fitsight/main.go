// fitsight - live workout tracking over a single camera.
//
// Runs the sensor pipeline (camera → pose → angles → rep detection) on a
// dedicated worker and serves the annotated MJPEG preview, session API,
// and live event websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitsight/fitsight/internal/config"
	"github.com/fitsight/fitsight/internal/log"
	"github.com/fitsight/fitsight/pkg/overlay"
	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/session"
	"github.com/fitsight/fitsight/pkg/store"
	"github.com/fitsight/fitsight/pkg/web"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		cameraID   = flag.Int("camera", -1, "camera device id (overrides config)")
		port       = flag.Int("port", 0, "HTTP port for the stream server (overrides config)")
		workout    = flag.String("workout", "", "workout id to start immediately (e.g. pushups)")
		dbPath     = flag.String("db", "", "path to the SQLite history db (overrides config)")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	log.Init(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *cameraID >= 0 {
		cfg.Camera.DeviceID = *cameraID
	}
	if *port > 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	estimator, err := pose.NewMoveNet(cfg.Pose)
	if err != nil {
		log.Error("pose model load failed", "error", err, "model", cfg.Pose.ModelPath)
		os.Exit(1)
	}
	defer estimator.Close()

	history, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("history db open failed", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer history.Close()

	worker := session.New(session.Config{
		Camera:        cfg.Camera,
		Rules:         cfg.Workouts,
		MinConfidence: cfg.Pose.MinConfidence,
	}, estimator, overlay.New(cfg.Camera.Quality))

	server := web.NewServer(cfg.Port, worker, history, cfg.SummaryPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.RunDispatcher(ctx)

	if *workout != "" {
		if err := server.StartSession(*workout); err != nil {
			log.Error("session start failed", "error", err, "workout", *workout)
			os.Exit(1)
		}
	}

	// Clean shutdown on interrupt: stop the session (releases the camera),
	// flush the summary, then stop the transport.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		server.StopSession()
		cancel()
		server.Shutdown()

		// signal.Notify replaced the default handler; a second interrupt
		// forces exit instead of being swallowed.
		<-sigChan
		log.Warn("forced exit")
		os.Exit(1)
	}()

	fmt.Printf("fitsight stream: http://localhost:%d/cv-stream (camera %d)\n",
		cfg.Port, cfg.Camera.DeviceID)

	if err := server.Start(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
