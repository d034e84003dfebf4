package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hollandm/ranger/internal/api"
	"github.com/hollandm/ranger/internal/cache"
	"github.com/hollandm/ranger/internal/config"
	"github.com/hollandm/ranger/internal/convo"
	"github.com/hollandm/ranger/internal/fetch"
	"github.com/hollandm/ranger/internal/llm"
	"github.com/hollandm/ranger/internal/nps"
	"github.com/hollandm/ranger/internal/parkindex"
	"github.com/hollandm/ranger/internal/warm"
)

const sessionSweepInterval = time.Hour

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ranger server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running ranger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ranger system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func runDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "ranger")
}

func pidFilePath() string {
	return filepath.Join(runDir(), "ranger.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "ranger version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Refuse to start twice. Check the health endpoint before claiming the
	// PID file.
	pidPath := pidFilePath()
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("ranger is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("ranger is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire up the domain.
	npsClient := nps.NewWithBaseURL(cfg.NPS.APIKey, cfg.NPS.BaseURL)
	index := parkindex.New(npsClient)
	responses := cache.New(fetch.DefaultTTLs())
	fetchers := fetch.New(index, npsClient, responses)
	model := llm.NewWithBaseURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	sessions := convo.NewManager()
	machine := convo.NewMachine(fetchers, model)

	// Load the park roster in the background. Fetchers degrade to
	// "park not found" answers until it finishes.
	go func() {
		if err := index.Load(ctx); err != nil {
			slog.Error("park roster load failed", "error", err)
			return
		}
		slog.Info("park roster loaded", "parks", len(index.Entries()))
	}()

	go sessions.Run(ctx, sessionSweepInterval)

	refresher := warm.New(responses, fetchers, time.Duration(cfg.Warm.IntervalHours)*time.Hour)
	go refresher.Run(ctx)

	handler := api.NewHandler(api.Deps{
		Sessions:   sessions,
		Machine:    machine,
		Index:      index,
		Fetchers:   fetchers,
		Model:      model,
		Cache:      responses,
		AdminToken: cfg.Server.AdminToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Start MCP server (stdio transport in a goroutine).
	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Index:    index,
		Fetchers: fetchers,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "ranger listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func stopServer() error {
	pidPath := pidFilePath()
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("ranger is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop ranger (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to ranger (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	// Park roster readiness, via the parks endpoint.
	if resp != nil && resp.StatusCode == 200 {
		parksResp, err := client.Get(serverURL + "/api/parks")
		if err == nil {
			parksResp.Body.Close()
			switch parksResp.StatusCode {
			case 200:
				printStatus("Park roster", "loaded")
			case 503:
				printStatus("Park roster", "loading")
			default:
				printStatus("Park roster", "error (HTTP %d)", parksResp.StatusCode)
			}
		}
	}

	printStatus("NPS API", "%s", cfg.NPS.BaseURL)
	printStatus("Model", "%s (%s)", cfg.LLM.Model, cfg.LLM.BaseURL)
	printStatus("Warm interval", "%dh", cfg.Warm.IntervalHours)
	return nil
}
