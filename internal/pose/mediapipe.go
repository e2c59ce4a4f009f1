package pose

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrServiceNotFound is returned when the pose service script cannot be located.
	ErrServiceNotFound = errors.New("pose_service.py not found")
	// ErrServiceExited is returned by Detect once the pose service process
	// has gone away. No later call can succeed.
	ErrServiceExited = errors.New("pose service exited")
)

// MediaPipeDetector implements Detector using a Python MediaPipe Pose subprocess.
// The subprocess lives for the whole session: it is started by Open and
// stopped by Close.
type MediaPipeDetector struct {
	config Config
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	closed bool
}

// Open starts a MediaPipe Pose session.
// The caller must Close the returned detector to stop the subprocess.
func Open(config Config) (*MediaPipeDetector, error) {
	scriptPath := findPoseScript()
	if scriptPath == "" {
		return nil, ErrServiceNotFound
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	cmd := exec.Command(pythonPath, scriptPath,
		"--min-detection-confidence", strconv.FormatFloat(config.MinDetectionConf, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(config.MinTrackingConf, 'f', -1, 64),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pose service: %w", err)
	}

	return &MediaPipeDetector{
		config: config,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}, nil
}

// Detect sends a frame to the pose service and returns the detected pose.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (*Raw, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("pose service is closed")
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return d.exchange(buf.GetBytes())
}

// exchange sends one encoded frame and reads the service's answer. A broken
// pipe or EOF means the process is gone.
func (d *MediaPipeDetector) exchange(data []byte) (*Raw, error) {
	if err := writeFrame(d.stdin, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceExited, err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read response: %v", ErrServiceExited, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decodeResponse([]byte(line))
}

// Close shuts down the Python process. Calling Close more than once is a no-op.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	// Closing stdin makes the service exit its read loop
	d.stdin.Close()
	return d.cmd.Wait()
}

// writeFrame writes a length-prefixed (4 bytes big-endian) payload.
func writeFrame(w io.Writer, data []byte) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := w.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// jsonResponse represents the JSON structure from the Python service.
// Landmarks is null or empty when no person was found in the frame.
type jsonResponse struct {
	Landmarks []RawPoint `json:"landmarks"`
}

// decodeResponse parses one response line from the pose service.
func decodeResponse(line []byte) (*Raw, error) {
	var response jsonResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(response.Landmarks) == 0 {
		return nil, nil
	}
	if len(response.Landmarks) != NumLandmarks {
		return nil, fmt.Errorf("parse response: got %d landmarks, want %d", len(response.Landmarks), NumLandmarks)
	}

	raw := &Raw{}
	copy(raw.Points[:], response.Landmarks)
	return raw, nil
}

func findPoseScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".bodymeasure/scripts/pose_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".bodymeasure/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
