// Package diagnostics stores the named attachments (screenshots) captured
// while a funnel runs.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const MediaTypePNG = "image/png"

// Sink accepts named binary attachments.
type Sink interface {
	Attach(name string, data []byte, mediaType string) error
}

// Attachment is one manifest entry.
type Attachment struct {
	Name       string    `yaml:"name"`
	File       string    `yaml:"file"`
	MediaType  string    `yaml:"media_type"`
	Size       int       `yaml:"size"`
	CapturedAt time.Time `yaml:"captured_at"`
}

// Manifest indexes the attachments of one run.
type Manifest struct {
	RunID       string       `yaml:"run_id"`
	TestName    string       `yaml:"test_name,omitempty"`
	Attachments []Attachment `yaml:"attachments"`
}

// FileSink writes attachments to <dir>/<run-id>/ with a manifest.yaml next
// to them.
type FileSink struct {
	mu       sync.Mutex
	dir      string
	manifest Manifest
	now      func() time.Time
}

// NewFileSink creates the run directory under root.
func NewFileSink(root, testName string) (*FileSink, error) {
	runID := uuid.New().String()
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics dir: %w", err)
	}
	return &FileSink{
		dir:      dir,
		manifest: Manifest{RunID: runID, TestName: testName},
		now:      time.Now,
	}, nil
}

// Dir is the run directory.
func (s *FileSink) Dir() string {
	return s.dir
}

// RunID identifies the run the attachments belong to.
func (s *FileSink) RunID() string {
	return s.manifest.RunID
}

func (s *FileSink) Attach(name string, data []byte, mediaType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := fmt.Sprintf("%02d_%s%s", len(s.manifest.Attachments)+1, sanitize(name), extension(mediaType))
	if err := os.WriteFile(filepath.Join(s.dir, file), data, 0o644); err != nil {
		return fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	s.manifest.Attachments = append(s.manifest.Attachments, Attachment{
		Name:       name,
		File:       file,
		MediaType:  mediaType,
		Size:       len(data),
		CapturedAt: s.now(),
	})
	return s.writeManifest()
}

// Manifest returns a copy of the current manifest.
func (s *FileSink) Manifest() Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.manifest
	m.Attachments = append([]Attachment(nil), s.manifest.Attachments...)
	return m
}

func (s *FileSink) writeManifest() error {
	data, err := yaml.Marshal(s.manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, "manifest.yaml"), data, 0o644)
}

// ReadManifest loads the manifest of a run directory.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}

// MemorySink keeps attachments in memory.
type MemorySink struct {
	mu          sync.Mutex
	Attachments map[string][]byte
	Order       []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{Attachments: map[string][]byte{}}
}

func (s *MemorySink) Attach(name string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attachments[name] = data
	s.Order = append(s.Order, name)
	return nil
}

// Names returns attachment names in capture order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Order...)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitize(name string) string {
	clean := unsafeChars.ReplaceAllString(name, "_")
	if clean == "" {
		return "attachment"
	}
	return clean
}

func extension(mediaType string) string {
	switch mediaType {
	case MediaTypePNG:
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}
