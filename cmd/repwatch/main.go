package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/ayusman/repwatch/internal/app"
	"github.com/ayusman/repwatch/internal/capture"
	"github.com/ayusman/repwatch/internal/export"
	"github.com/ayusman/repwatch/internal/pose"
	"github.com/ayusman/repwatch/internal/server"
	"github.com/ayusman/repwatch/internal/store"
	"github.com/ayusman/repwatch/internal/tray"
)

func main() {
	video := flag.String("video", "", "analyze a recorded video file instead of the live camera")
	cameraID := flag.Int("camera", 0, "camera device ID for live sessions")
	target := flag.Int("target", 0, "repetition target, 0 for unlimited")
	addr := flag.String("addr", ":8080", "dashboard listen address")
	profileName := flag.String("profile", store.DefaultProfileName, "tuning profile to load")
	flag.Parse()

	fmt.Println("RepWatch - Push-Up Repetition Analyzer")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".repwatch")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "repwatch.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	profile, err := st.Profiles().GetByName(*profileName)
	if err != nil {
		log.Fatalf("Failed to load profile %q: %v", *profileName, err)
	}
	cfg := profile.Config
	if *target > 0 {
		cfg.TargetCount = *target
	}

	exporters := export.NewManager(filepath.Join(dataDir, "exporters"))
	if err := exporters.Discover(); err != nil {
		log.Printf("Exporter discovery failed: %v", err)
	}

	if *video != "" {
		runSampled(*video, cfg, exporters)
		return
	}

	runLive(*cameraID, *addr, cfg, st, exporters)
}

// runSampled analyzes a recorded video to completion and prints the summary.
func runSampled(path string, cfg analysis.Config, exporters *export.Manager) {
	source, err := capture.OpenVideoFile(path)
	if err != nil {
		log.Fatalf("Failed to open video: %v", err)
	}

	estimator := newEstimator()

	sessionID := uuid.New().String()
	counter := analysis.NewCounter(cfg, analysis.Callbacks{
		OnCount: func(count int) {
			fmt.Printf("Reps: %d\n", count)
		},
		OnReady: func() {
			fmt.Println("Ready position detected, counting started")
		},
		OnFeedback: func(rep int, category analysis.Category) {
			fmt.Printf("Rep %d: %s\n", rep, category)
		},
		OnTargetReached: func() {
			fmt.Println("Target reached!")
		},
		OnComplete: func(result analysis.SessionResult) {
			printSummary(result)
			runExporters(exporters, sessionID, result)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := app.NewSampledRunner(source, estimator, counter, nil, 0)
	if err := runner.Run(ctx); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	if ctx.Err() != nil {
		fmt.Println("Analysis cancelled")
	}
}

// runLive starts the dashboard server and the tray, wiring live analyzer
// events to both.
func runLive(cameraID int, addr string, cfg analysis.Config, st *store.Store, exporters *export.Manager) {
	hub := server.NewEventHub()
	t := tray.New()

	callbacks := hub.Callbacks()
	baseCount := callbacks.OnCount
	callbacks.OnCount = func(count int) {
		baseCount(count)
		t.SetCount(count)
	}
	baseFeedback := callbacks.OnFeedback
	callbacks.OnFeedback = func(rep int, category analysis.Category) {
		baseFeedback(rep, category)
		t.SetFeedback(string(category))
	}

	application := app.New(app.Config{
		CameraID:  cameraID,
		Analysis:  cfg,
		Callbacks: callbacks,
		Exporters: exporters,
	})

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
		Hub:       hub,
		Camera:    application.Camera(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t.OnToggle(func(active bool) {
		if active {
			if err := application.Start(); err != nil {
				log.Printf("Failed to start session: %v", err)
				t.SetActive(false)
			}
		} else {
			application.Stop()
		}
	})
	t.OnDashboard(func() {
		openBrowser(dashboardURL(addr))
	})
	t.OnQuit(func() {
		application.Stop()
	})

	t.Run()
}

// newEstimator returns the BlazePose sidecar when available, otherwise the
// mock estimator so sampled runs still exercise the pipeline.
func newEstimator() pose.Estimator {
	bp, err := pose.NewBlazePoseEstimator(pose.DefaultConfig())
	if err == nil {
		log.Println("Using BlazePose estimation")
		return bp
	}
	log.Printf("BlazePose not available (%v), using mock estimator", err)
	return pose.NewMockEstimator()
}

// printSummary writes the end-of-session summary to stdout.
func printSummary(result analysis.SessionResult) {
	fmt.Printf("\nSession complete: %d reps\n", result.TotalCount)
	for _, fb := range result.Feedback {
		fmt.Printf("  rep %d: %s\n", fb.Rep, fb.Category)
	}
}

// runExporters hands a finished session to every discovered exporter.
func runExporters(exporters *export.Manager, sessionID string, result analysis.SessionResult) {
	if exporters == nil {
		return
	}

	req := export.NewRequest(sessionID, result)
	executor := export.NewExecutor(export.DefaultTimeoutMs)
	for _, exp := range exporters.List() {
		resp, err := executor.Export(exp, req)
		if err != nil {
			log.Printf("exporter %s failed: %v", exp.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("exporter %s rejected the session: %s", exp.Manifest.Name, resp.Error)
		}
	}
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.repwatch/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".repwatch", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
