// Package cbuild compiles C sources into shared libraries with gcc so
// their functions can be called as foreign functions.
package cbuild

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

var ErrNoCompiler = errors.New("gcc not found")

// Builder compiles into its own temp directory
type Builder struct {
	mu      sync.Mutex
	tempDir string
	counter int
}

// New creates a builder with a fresh temp directory
func New() (*Builder, error) {
	dir, err := os.MkdirTemp("", "ttexec_cbuild_")
	if err != nil {
		return nil, err
	}
	return &Builder{tempDir: dir}, nil
}

// IsAvailable returns true if gcc can be found
func IsAvailable() bool {
	_, err := exec.LookPath("gcc")
	return err == nil
}

// IsSource reports whether path names a C source file rather than a library
func IsSource(path string) bool {
	return strings.HasSuffix(path, ".c")
}

// Build compiles code into a shared library and returns its path
func (b *Builder) Build(code string) (string, error) {
	b.mu.Lock()
	b.counter++
	base := filepath.Join(b.tempDir, fmt.Sprintf("lib%d", b.counter))
	b.mu.Unlock()

	if err := os.WriteFile(base+".c", []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to write source: %w", err)
	}
	return b.compile(base+".c", base+".so")
}

// BuildFile compiles the C source at path into a shared library
func (b *Builder) BuildFile(path string) (string, error) {
	b.mu.Lock()
	b.counter++
	name := strings.TrimSuffix(filepath.Base(path), ".c")
	out := filepath.Join(b.tempDir, fmt.Sprintf("lib%s_%d.so", name, b.counter))
	b.mu.Unlock()

	return b.compile(path, out)
}

func (b *Builder) compile(src, out string) (string, error) {
	if !IsAvailable() {
		return "", ErrNoCompiler
	}
	cmd := exec.Command("gcc", "-std=c99", "-O2", "-shared", "-fPIC", "-o", out, src)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gcc failed on %s: %w\n%s", src, err, output)
	}
	return out, nil
}

// Cleanup removes the temp directory and everything built in it
func (b *Builder) Cleanup() error {
	return os.RemoveAll(b.tempDir)
}
