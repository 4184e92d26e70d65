package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingersign/internal/app"
	"github.com/ayusman/fingersign/internal/config"
	"github.com/ayusman/fingersign/internal/gesture"
	"github.com/ayusman/fingersign/internal/plugin"
	"github.com/ayusman/fingersign/internal/server"
	"github.com/ayusman/fingersign/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fingersign",
	Short: "Recognize finger-count hand signs from a webcam",
	Long: `fingersign reads frames from a webcam, detects up to two hands, classifies
which fingers are extended and draws the resolved sign label next to each
hand. Press any key in the window to quit.

Settings are read from the environment (and an optional .env file):
  FINGERSIGN_CAMERA            camera device index (default 0)
  FINGERSIGN_MIRROR            mirror frames before detection (default true)
  FINGERSIGN_DB_PATH           record recognitions to this SQLite file
  FINGERSIGN_HTTP_ADDR         serve a local preview on this address
  FINGERSIGN_MEDIAPIPE_SCRIPT  path of mediapipe_service.py
  FINGERSIGN_PYTHON            Python interpreter for the helper
  FINGERSIGN_PLUGIN_DIR        run plugins from this directory on new signs
  FINGERSIGN_PLUGIN_TIMEOUT    limit for one plugin run (default 5s)`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRecognize,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := gesture.DefaultSymbolTable()

	appCfg := app.DefaultConfig()
	appCfg.CameraID = cfg.CameraID
	appCfg.Mirror = cfg.Mirror
	appCfg.MediaPipeScript = cfg.MediaPipeScript
	appCfg.PythonPath = cfg.Python

	a := app.New(appCfg, table)
	if err := a.Ready(); err != nil {
		return err
	}

	var st *store.Store
	var sessionID string
	if cfg.DBPath != "" {
		st, err = store.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer st.Close()

		recorder, err := store.NewRecorder(st, cfg.CameraID)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Printf("Error finishing session: %v", err)
			}
		}()

		sessionID = recorder.SessionID()
		a.AddResultListener(recorder)
		log.Printf("Recording session %s to %s", sessionID, cfg.DBPath)
	}

	if cfg.PluginDir != "" {
		manager := plugin.NewManager(cfg.PluginDir)
		if err := manager.Discover(); err != nil {
			return fmt.Errorf("discover plugins: %w", err)
		}
		log.Printf("Loaded %d plugins from %s", len(manager.List()), cfg.PluginDir)

		dispatcher := plugin.NewDispatcher(manager, plugin.NewExecutor(cfg.PluginTimeout))
		a.AddResultListener(dispatcher)
		go dispatcher.Run(ctx)
	}

	if cfg.HTTPAddr != "" {
		frames := server.NewFrameBuffer()
		events := server.NewEventHub()
		a.AddFrameListener(frames)
		a.AddResultListener(events)

		srv := server.New(server.Config{
			Table:     table,
			Store:     st,
			SessionID: sessionID,
			Frames:    frames,
			Events:    events,
		})

		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := srv.ListenAndServe(srvCtx, cfg.HTTPAddr); err != nil {
				log.Printf("Preview server failed: %v", err)
			}
		}()
	}

	return a.Run(ctx)
}
