package utils

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ProcessManager owns all background goroutines and their lifecycle.
type ProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	processes map[string]*ProcessInfo
	mu        sync.RWMutex
}

type ProcessInfo struct {
	Name        string
	Description string
	StartedAt   time.Time
	cancel      context.CancelFunc
}

func NewProcessManager() *ProcessManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]*ProcessInfo),
	}
}

// StartProcess registers and starts a background process. Starting a
// process under a name that is already running stops the old one first.
func (pm *ProcessManager) StartProcess(name, description string, fn func(ctx context.Context)) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, exists := pm.processes[name]; exists {
		slog.Warn("Process already exists, stopping existing one", slog.String("name", name))
		pm.stopProcessLocked(name)
	}

	processCtx, processCancel := context.WithCancel(pm.ctx)
	pm.processes[name] = &ProcessInfo{
		Name:        name,
		Description: description,
		StartedAt:   time.Now(),
		cancel:      processCancel,
	}

	pm.wg.Add(1)
	go func() {
		defer pm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "error"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process",
			slog.String("process", name),
			slog.String("description", description))

		fn(processCtx)

		slog.Info("Background process ended",
			slog.String("process", name))
	}()
}

// StopProcess stops a specific background process
func (pm *ProcessManager) StopProcess(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.stopProcessLocked(name)
}

func (pm *ProcessManager) stopProcessLocked(name string) {
	if process, exists := pm.processes[name]; exists {
		process.cancel()
		delete(pm.processes, name)
		slog.Info("Stopped background process", slog.String("process", name))
	}
}

// Shutdown gracefully stops all background processes
func (pm *ProcessManager) Shutdown(timeout time.Duration) error {
	slog.Info("Shutting down background processes",
		slog.Int("process_count", pm.GetProcessCount()))

	// Cancel all processes
	pm.cancel()

	// Wait for all processes to finish with timeout
	done := make(chan struct{})
	go func() {
		pm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("All background processes stopped gracefully")
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// GetProcessCount returns the number of active processes
func (pm *ProcessManager) GetProcessCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.processes)
}

// ListProcesses returns information about all active processes
func (pm *ProcessManager) ListProcesses() []ProcessInfo {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	processes := make([]ProcessInfo, 0, len(pm.processes))
	for _, process := range pm.processes {
		processes = append(processes, *process)
	}
	return processes
}

// Context returns the global context for the manager
func (pm *ProcessManager) Context() context.Context {
	return pm.ctx
}
