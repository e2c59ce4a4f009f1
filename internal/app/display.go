package app

import "gocv.io/x/gocv"

// Display is the surface frames are shown on. WaitKey also pumps the
// window's event loop, so it must be called once per shown frame.
type Display interface {
	Show(img gocv.Mat)
	// WaitKey waits up to delay milliseconds for a key press and returns
	// its code, or -1 if none was pressed.
	WaitKey(delay int) int
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(name string) *Window {
	return &Window{window: gocv.NewWindow(name)}
}

// Show draws img in the window.
func (w *Window) Show(img gocv.Mat) {
	w.window.IMShow(img)
}

// WaitKey polls the window for a key press.
func (w *Window) WaitKey(delay int) int {
	return w.window.WaitKey(delay)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}
