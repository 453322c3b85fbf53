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
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoPose is returned when no person is detected in a frame.
var ErrNoPose = errors.New("no pose detected")

// BlazePose landmark indices for the joints the analyzer uses.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
var blazePoseIndex = map[Joint]int{
	{Shoulder, SideLeft}:  11,
	{Shoulder, SideRight}: 12,
	{Elbow, SideLeft}:     13,
	{Elbow, SideRight}:    14,
	{Wrist, SideLeft}:     15,
	{Wrist, SideRight}:    16,
	{Hip, SideLeft}:       23,
	{Hip, SideRight}:      24,
	{Knee, SideLeft}:      25,
	{Knee, SideRight}:     26,
	{Ankle, SideLeft}:     27,
	{Ankle, SideRight}:    28,
}

// blazePoseNumLandmarks is the full BlazePose landmark count.
const blazePoseNumLandmarks = 33

// BlazePoseEstimator implements Estimator using a Python BlazePose subprocess.
type BlazePoseEstimator struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewBlazePoseEstimator creates a new BlazePose estimator.
// The Python process is started lazily on the first estimation.
func NewBlazePoseEstimator(config Config) (*BlazePoseEstimator, error) {
	scriptPath := findBlazePoseScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("blazepose_service.py not found")
	}

	return &BlazePoseEstimator{
		config: config,
	}, nil
}

// Estimate analyzes a frame and returns the detected body pose.
func (e *BlazePoseEstimator) Estimate(frame *gocv.Mat) (*Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := e.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := e.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := e.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Detected  bool        `json:"detected"`
		Landmarks []jsonPoint `json:"landmarks"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	e.lastUsed = time.Now()
	e.resetIdleTimer()

	if !response.Detected {
		return nil, ErrNoPose
	}

	return landmarksToFrame(response.Landmarks), nil
}

// Close shuts down the Python process.
func (e *BlazePoseEstimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown()
}

func (e *BlazePoseEstimator) ensureStarted() error {
	if e.started {
		return nil
	}

	scriptPath := findBlazePoseScript()
	if scriptPath == "" {
		return fmt.Errorf("blazepose_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	e.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--model-complexity=%d", e.config.ModelComplexity),
		fmt.Sprintf("--min-confidence=%f", e.config.MinConfidence),
		fmt.Sprintf("--min-tracking-confidence=%f", e.config.MinTrackingConf),
	)

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	e.cmd.Stderr = os.Stderr

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("start blazepose service: %w", err)
	}

	e.stdin = stdin
	e.stdout = bufio.NewReader(stdout)
	e.started = true
	e.lastUsed = time.Now()

	return nil
}

func (e *BlazePoseEstimator) shutdown() error {
	if !e.started {
		return nil
	}

	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}

	if e.stdin != nil {
		e.stdin.Close()
	}

	err := e.cmd.Wait()
	e.started = false
	e.cmd = nil
	e.stdin = nil
	e.stdout = nil

	return err
}

func (e *BlazePoseEstimator) resetIdleTimer() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
	}
	e.idleTimer = time.AfterFunc(30*time.Second, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.shutdown()
	})
}

func findBlazePoseScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/blazepose_service.py",
		"../scripts/blazepose_service.py",
		filepath.Join(execDir, "scripts/blazepose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".repwatch/scripts/blazepose_service.py"),
	}

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
		filepath.Join(os.Getenv("HOME"), ".repwatch/venv/bin/python"),
	}

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

// jsonPoint represents one landmark in the JSON from the Python service.
type jsonPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// landmarksToFrame extracts the joints the analyzer uses from the full
// BlazePose landmark list. Indices past the end of the list are skipped.
func landmarksToFrame(points []jsonPoint) *Frame {
	f := &Frame{
		Landmarks: make(map[Joint]Landmark, len(blazePoseIndex)),
	}
	for joint, idx := range blazePoseIndex {
		if idx >= len(points) {
			continue
		}
		p := points[idx]
		f.Landmarks[joint] = Landmark{
			X:          p.X,
			Y:          p.Y,
			Confidence: p.Visibility,
		}
	}
	return f
}
