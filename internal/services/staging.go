package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StagingService hands out request-scoped directories for intermediate
// media artifacts (uploaded video, extracted frames, extracted audio).
// Every session gets its own uuid-named directory so concurrent requests
// never touch each other's files.
type StagingService interface {
	EnsureWorkDir() error
	NewSession() (*StagingSession, error)
}

type stagingService struct {
	workDir string
}

func NewStagingService(workDir string) StagingService {
	return &stagingService{workDir: workDir}
}

func (s *stagingService) EnsureWorkDir() error {
	if err := os.MkdirAll(s.workDir, 0755); err != nil {
		return fmt.Errorf("failed to create media work directory: %w", err)
	}

	return nil
}

func (s *stagingService) NewSession() (*StagingSession, error) {
	dir := filepath.Join(s.workDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &StagingSession{dir: dir}, nil
}

// StagingSession is one request's artifact directory. Callers must defer
// Cleanup so artifacts are removed on every exit path.
type StagingSession struct {
	dir string
}

func (s *StagingSession) Dir() string {
	return s.dir
}

func (s *StagingSession) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *StagingSession) WriteFile(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", name, err)
	}

	return path, nil
}

func (s *StagingSession) Cleanup() {
	if err := os.RemoveAll(s.dir); err != nil {
		log.Printf("⚠️  Failed to clean staging directory %s: %v\n", s.dir, err)
	}
}
