package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/bodymeasure/internal/capture"
	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/ayusman/bodymeasure/internal/pose"
	"gocv.io/x/gocv"
)

// Run opens the camera, the pose detector session and the display, then
// processes frames until the camera reaches end of stream, the quit key is
// pressed or ctx is cancelled. Those three exits return nil.
//
// Every resource opened by Run is released exactly once before it returns,
// whichever way the loop ends. A non-nil error means startup failed, the
// pose service exited, or a measurement could not be computed from a
// detected pose.
//
// Per frame:
// 1. Read a frame
// 2. Run pose detection
// 3. If a pose was found: normalize, measure, draw skeleton and text
// 4. Show the frame (raw when nothing was detected)
// 5. Poll for the quit key
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer release("camera", a.camera.Close)

	detector, err := a.openDetector(a.config.Pose)
	if err != nil {
		return fmt.Errorf("open pose detector: %w", err)
	}
	defer release("pose detector", detector.Close)

	display := a.newDisplay(a.config.WindowName)
	defer release("display", display.Close)

	a.mu.Lock()
	a.stats = Stats{}
	a.mu.Unlock()

	recorder := a.config.Recorder
	if recorder != nil {
		if err := recorder.Begin(a.config.CameraID); err != nil {
			log.Printf("Recording disabled: %v", err)
			recorder = nil
		} else {
			defer func() {
				stats := a.Stats()
				if err := recorder.End(stats.Frames, stats.Detections); err != nil {
					log.Printf("Error ending recording: %v", err)
				}
			}()
		}
	}

	a.setState(Running)
	defer a.setState(Stopped)
	log.Println("Display loop started")
	defer log.Println("Display loop stopped")

	for {
		select {
		case <-ctx.Done():
			log.Printf("Display loop cancelled: %v", ctx.Err())
			return nil
		default:
		}

		quit, err := a.step(detector, display, recorder)
		if errors.Is(err, capture.ErrEndOfStream) {
			log.Printf("Camera stopped: %v", err)
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			log.Println("Quit key pressed")
			return nil
		}
	}
}

// step runs one loop iteration and reports whether the quit key was pressed.
func (a *App) step(detector pose.Detector, display Display, recorder Recorder) (bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return false, err
	}
	defer frame.Close()

	a.mu.Lock()
	a.stats.Frames++
	index := a.stats.Frames - 1
	a.mu.Unlock()

	if err := a.annotate(detector, frame, index, recorder); err != nil {
		return false, err
	}

	display.Show(*frame)

	key := display.WaitKey(KeyWaitMs)
	return key >= 0 && byte(key&0xFF) == a.config.QuitKey, nil
}

// annotate runs detection on frame and, when a pose is found, draws the
// skeleton and measurements onto it. Detector failures leave the frame raw,
// except a pose service that has exited, which ends the run.
func (a *App) annotate(detector pose.Detector, frame *gocv.Mat, index int, recorder Recorder) error {
	raw, err := detector.Detect(frame)
	if errors.Is(err, pose.ErrServiceExited) {
		return fmt.Errorf("frame %d: %w", index, err)
	}
	if err != nil {
		log.Printf("Error detecting pose: %v", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	set := pose.Normalize(raw, frame.Cols(), frame.Rows())

	m, err := measure.Compute(set)
	if err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}

	a.mu.Lock()
	a.stats.Detections++
	a.mu.Unlock()

	a.renderer.Render(frame, set, &m)

	if recorder != nil {
		if err := recorder.Record(index, m); err != nil {
			log.Printf("Error recording frame %d: %v", index, err)
		}
	}
	if a.config.Feed != nil {
		a.config.Feed.Publish(index, m)
	}

	return nil
}

// release closes a resource and logs, rather than returns, its error.
func release(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Printf("Error closing %s: %v", name, err)
	}
}
