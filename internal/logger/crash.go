// Package logger records crash reports for tasktrack.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash reports, relative to the data directory.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash reports to keep.
	MaxCrashLogs = 10
)

// CrashContext stores what is known about the running command.
// User input is deliberately never recorded: it may contain passwords.
type CrashContext struct {
	mu       sync.RWMutex
	fs       afero.Fs
	command  string
	version  string
	basePath string
}

var globalContext = &CrashContext{fs: afero.NewOsFs()}

// SetBasePath sets the directory that receives crash_logs/.
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version recorded in reports.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// CrashLog is one crash report.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers from a panic, saves a crash report and exits 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		report(os.Stderr, r)
		os.Exit(1)
	}
}

func report(w io.Writer, panicValue any) {
	crash := createCrashLog(panicValue)
	path, err := writeCrashLog(crash)
	if err != nil {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(w, "[CRASH] Panic: %v\n%s\n", panicValue, crash.StackTrace)
		return
	}

	box := lipgloss.NewRenderer(w).NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	fmt.Fprintln(w)
	fmt.Fprintln(w, box.Render("tasktrack encountered an unexpected error"))
	fmt.Fprintf(w, "\nA crash log has been saved to:\n  %s\n\n", path)
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashLog stores the report as JSON and returns its path.
func writeCrashLog(crash CrashLog) (string, error) {
	globalContext.mu.RLock()
	fs := globalContext.fs
	globalContext.mu.RUnlock()

	dir := crashLogDir()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	if err := cleanOldCrashLogs(fs, dir); err != nil {
		// Non-fatal, continue with writing
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	data, err := json.MarshalIndent(crash, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.json", crash.Timestamp.Format("20060102_150405")))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

func crashLogDir() string {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	return filepath.Join(globalContext.basePath, CrashLogDir)
}

// ListCrashLogs returns the saved crash reports, oldest first.
func ListCrashLogs() ([]string, error) {
	globalContext.mu.RLock()
	fs := globalContext.fs
	globalContext.mu.RUnlock()
	return listCrashLogs(fs, crashLogDir())
}

func listCrashLogs(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".json") {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// cleanOldCrashLogs leaves room for one more report under MaxCrashLogs.
func cleanOldCrashLogs(fs afero.Fs, dir string) error {
	logs, err := listCrashLogs(fs, dir)
	if err != nil {
		return err
	}
	for len(logs) >= MaxCrashLogs {
		if err := fs.Remove(logs[0]); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(logs[0]), err)
		}
		logs = logs[1:]
	}
	return nil
}
