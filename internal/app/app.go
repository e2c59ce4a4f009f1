// Package app provides the display loop that ties capture, pose detection,
// measurement and overlay together.
package app

import (
	"sync"

	"github.com/ayusman/bodymeasure/internal/capture"
	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/ayusman/bodymeasure/internal/overlay"
	"github.com/ayusman/bodymeasure/internal/pose"
)

// Loop constants.
const (
	// DefaultWindowName is the title of the display window.
	DefaultWindowName = "Pose Estimation"
	// DefaultQuitKey stops the loop when pressed in the window.
	DefaultQuitKey = 'q'
	// KeyWaitMs is how long each iteration waits for a key press.
	KeyWaitMs = 1
)

// State is the display loop state.
type State int

const (
	// Stopped is the state before Run and after it returns.
	Stopped State = iota
	// Running is the state while frames are being processed.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Recorder persists measurements of a run. Errors are logged and do not
// stop the loop.
type Recorder interface {
	Begin(cameraID int) error
	Record(frame int, m measure.Measurements) error
	End(frames, detections int) error
}

// Feed receives measurements as they are computed. Publish must not block.
type Feed interface {
	Publish(frame int, m measure.Measurements)
}

// Config holds configuration options for the application.
type Config struct {
	CameraID   int
	Width      int
	Height     int
	WindowName string
	QuitKey    byte
	Pose       pose.Config
	Style      overlay.Style

	// Optional sinks, nil when disabled
	Recorder Recorder
	Feed     Feed
}

// DefaultConfig returns the configuration used by the bodymeasure command:
// camera 0 at 640x480, default pose thresholds and overlay style, no
// recording and no live feed.
func DefaultConfig() Config {
	return Config{
		CameraID:   0,
		Width:      capture.DefaultWidth,
		Height:     capture.DefaultHeight,
		WindowName: DefaultWindowName,
		QuitKey:    DefaultQuitKey,
		Pose:       pose.DefaultConfig(),
		Style:      overlay.DefaultStyle(),
	}
}

// Stats counts the frames processed by a run.
type Stats struct {
	Frames     int
	Detections int
}

// App runs the per-frame capture, detect, measure, draw and show loop.
type App struct {
	config       Config
	camera       capture.Camera
	openDetector func(pose.Config) (pose.Detector, error)
	newDisplay   func(name string) Display
	renderer     *overlay.Renderer

	mu    sync.RWMutex
	state State
	stats Stats
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.WindowName == "" {
		config.WindowName = DefaultWindowName
	}
	if config.QuitKey == 0 {
		config.QuitKey = DefaultQuitKey
	}

	return &App{
		config: config,
		camera: capture.NewCamera(config.CameraID, config.Width, config.Height),
		openDetector: func(c pose.Config) (pose.Detector, error) {
			d, err := pose.Open(c)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		newDisplay: func(name string) Display {
			return NewWindow(name)
		},
		renderer: overlay.New(config.Style),
	}
}

// SetCamera replaces the frame source.
func (a *App) SetCamera(c capture.Camera) {
	a.camera = c
}

// SetDetector makes Run use d as its pose detector session instead of
// starting the MediaPipe service. Run still closes d on exit.
func (a *App) SetDetector(d pose.Detector) {
	a.openDetector = func(pose.Config) (pose.Detector, error) {
		return d, nil
	}
}

// SetDisplay makes Run show frames on d instead of opening a window.
// Run still closes d on exit.
func (a *App) SetDisplay(d Display) {
	a.newDisplay = func(string) Display {
		return d
	}
}

// Config returns the application configuration.
func (a *App) Config() Config {
	return a.config
}

// State returns the current loop state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Stats returns the counters of the current or last run.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

func (a *App) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}
