package headless

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-cavern/cavern/backend"
	"github.com/valerio/go-cavern/cavern/canvas"
	"github.com/valerio/go-cavern/cavern/display"
)

// Backend implements backend.Window and backend.Presenter for automated
// runs: it presents into memory, saves snapshots and quits after a fixed
// number of frames.
type Backend struct {
	config         backend.Config
	width          int
	height         int
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	last           *canvas.Canvas
	quitSent       bool
}

var (
	_ backend.Window    = (*Backend)(nil)
	_ backend.Presenter = (*Backend)(nil)
)

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int           // Save snapshot every N frames
	Directory string        // Directory to save snapshots
	Name      string        // Prefix for snapshot filenames
	Format    canvas.Format // png or bmp
}

// New creates a headless backend. maxFrames <= 0 runs until the driver quits.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		width:          display.OffscreenWidth,
		height:         display.OffscreenHeight,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	if config.Width > 0 && config.Height > 0 {
		h.width, h.height = config.Width, config.Height
	}

	// Set up debug logging for headless mode
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"size", fmt.Sprintf("%dx%d", h.width, h.height),
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

// Update signals completion once the target frame count was presented.
func (h *Backend) Update() error {
	if h.maxFrames > 0 && h.frameCount >= h.maxFrames && !h.quitSent {
		h.quitSent = true
		h.config.Callbacks.Quit()
	}
	return nil
}

func (h *Backend) Size() (int, int) {
	return h.width, h.height
}

// PushOut keeps the frame and saves snapshots on the configured interval.
func (h *Backend) PushOut(frame *canvas.Canvas) error {
	h.frameCount++
	h.last = frame.Clone()

	if h.snapshotConfig.Enabled && h.snapshotConfig.Interval > 0 && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot()
	}

	// Log progress periodically
	if h.frameCount%10 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.maxFrames > 0 && h.frameCount == h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot()
		}

		if h.snapshotConfig.Enabled {
			slog.Info("Headless execution completed", "frames", h.maxFrames, "snapshots_saved_to", h.snapshotConfig.Directory)
		} else {
			slog.Info("Headless execution completed", "frames", h.maxFrames)
		}
	}
	return nil
}

// LastFrame returns a copy of the most recently presented frame, or nil.
func (h *Backend) LastFrame() *canvas.Canvas {
	return h.last
}

// FrameCount is the number of frames presented so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

func (h *Backend) Cleanup() error {
	return nil
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, name string, format canvas.Format) (SnapshotConfig, error) {
	if format == "" {
		format = canvas.FormatPNG
	}
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		Name:     name,
		Format:   format,
	}

	if !config.Enabled {
		return config, nil
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "cavern-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	if config.Name == "" {
		config.Name = "cavern"
	}
	return config, nil
}

func (h *Backend) saveSnapshot() {
	baseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.Name, h.frameCount)

	if _, err := h.last.SaveToDir(baseName, h.snapshotConfig.Directory, h.snapshotConfig.Format); err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "error", err)
	}
}
