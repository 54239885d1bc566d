package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// StaleAfter is how long a reading from the estimator remains valid.
// Past this age Read reports no face, so a stalled estimator degrades
// to the same behavior as a lost face.
const StaleAfter = time.Second

// ServiceSource reads head-pose estimates from an external estimator
// process. The estimator owns the camera, face-mesh extraction and
// PnP solving, and writes one JSON reading per line to stdout:
//
//	{"yaw": -3.2, "pitch": 1.1, "present": true}
//
// The process is started lazily on the first Read.
type ServiceSource struct {
	command string
	cmd     *exec.Cmd
	mu      sync.Mutex
	started bool
	closed  bool

	latest   Sample
	latestAt time.Time
}

// NewServiceSource creates a ServiceSource for the given estimator
// command line, e.g. "python3 scripts/pose_service.py".
func NewServiceSource(command string) (*ServiceSource, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("empty estimator command")
	}
	return &ServiceSource{command: command}, nil
}

// Read returns the most recent reading from the estimator.
// A reading older than StaleAfter is reported as no face.
func (s *ServiceSource) Read() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Sample{}, ErrSourceClosed
	}

	if err := s.ensureStarted(); err != nil {
		return Sample{}, err
	}

	if time.Since(s.latestAt) > StaleAfter {
		return NoFace(), nil
	}
	return s.latest, nil
}

// Close shuts down the estimator process.
func (s *ServiceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.shutdown()
}

func (s *ServiceSource) ensureStarted() error {
	if s.started {
		return nil
	}

	args := strings.Fields(s.command)
	s.cmd = exec.Command(args[0], args[1:]...)

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Surface estimator diagnostics
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start pose estimator: %w", err)
	}

	s.started = true
	go s.readLoop(stdout)

	return nil
}

// readLoop consumes NDJSON readings until the estimator exits or the
// source is closed. Malformed lines are skipped. The process is never
// relaunched; once it exits the readings age past StaleAfter and Read
// degrades to no face until the caller builds a fresh source.
func (s *ServiceSource) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var sample Sample
		if err := json.Unmarshal(scanner.Bytes(), &sample); err != nil {
			continue
		}

		s.mu.Lock()
		s.latest = sample
		s.latestAt = time.Now()
		s.mu.Unlock()
	}
}

func (s *ServiceSource) shutdown() error {
	if !s.started || s.cmd == nil {
		return nil
	}

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	return err
}
