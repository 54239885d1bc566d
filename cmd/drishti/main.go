package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/drishti/internal/monitor"
	"github.com/ayusman/drishti/internal/pose"
	"github.com/ayusman/drishti/internal/server"
	"github.com/ayusman/drishti/internal/store"
	"github.com/ayusman/drishti/testdata"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "path to the sqlite database (default ~/.drishti/drishti.db)")
	poseCmd := flag.String("pose-cmd", "", "command launching the external head pose estimator")
	profile := flag.String("profile", "", "name of the profile to activate on startup")
	flag.Parse()

	fmt.Println("Drishti - Attention Monitoring")

	// Initialize the store
	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".drishti")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "drishti.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Pick the pose source. Without an estimator command the monitor
	// loops over a bundled synthetic trace so the server still runs.
	var source pose.Source
	if *poseCmd != "" {
		source, err = pose.NewServiceSource(*poseCmd)
		if err != nil {
			log.Fatalf("Failed to create pose source: %v", err)
		}
	} else {
		source = pose.NewReplaySource(testdata.DistractionTrace(60, 90, 60), true)
		fmt.Println("No -pose-cmd given, replaying a synthetic trace")
	}

	mon, err := monitor.New(monitor.Config{
		Store:  st,
		Source: source,
	})
	if err != nil {
		log.Fatalf("Failed to create monitor: %v", err)
	}

	if *profile != "" {
		p, err := st.Profiles().GetByName(*profile)
		if err != nil {
			log.Fatalf("Failed to load profile %q: %v", *profile, err)
		}
		if err := st.Profiles().SetActive(p.ID); err != nil {
			log.Fatalf("Failed to activate profile %q: %v", *profile, err)
		}
	}
	if err := mon.LoadActiveProfile(); err != nil {
		log.Fatalf("Failed to apply active profile: %v", err)
	}

	if err := mon.Start(); err != nil {
		log.Fatalf("Failed to start monitor: %v", err)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	cfg := server.Config{
		StaticDir: webDir,
		Store:     st,
		Monitor:   mon,
	}

	srv := server.New(cfg)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		errCh <- srv.ListenAndServe(*addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	mon.Stop()

	stats := mon.Stats()
	log.Printf("Session summary: %d frames, %.0f%% attentive, %.1fs not looking",
		stats.TotalFrames, stats.AttentionRatio*100, stats.TimeNotLooking)
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.drishti/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".drishti", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
