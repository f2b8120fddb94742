package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"timetable-backend/internal/shared/telemetry"
)

// Engine is the process-wide tesseract session. It is created once at
// startup and torn down once at shutdown; if initialization fails the engine
// stays permanently unavailable for the process lifetime.
type Engine struct {
	binary  string
	lang    string
	scratch string
	runner  Runner
	initErr error
}

// NewEngine checks the tesseract binary is runnable and prepares a scratch
// directory for preprocessed images. An init failure is recorded, not retried.
func NewEngine(binary, lang string) *Engine {
	e := &Engine{
		binary: binary,
		lang:   lang,
		runner: execRunner{},
	}
	if strings.TrimSpace(e.binary) == "" {
		e.binary = "tesseract"
	}
	if strings.TrimSpace(e.lang) == "" {
		e.lang = "eng"
	}

	resolved, err := exec.LookPath(e.binary)
	if err != nil {
		e.initErr = fmt.Errorf("tesseract binary not found: %w", err)
		telemetry.Warn("extract.engine.init_failed", map[string]any{"binary": e.binary, "err": err.Error()})
		return e
	}
	e.binary = resolved

	scratch, err := os.MkdirTemp("", "ocr-engine-")
	if err != nil {
		e.initErr = fmt.Errorf("create scratch dir: %w", err)
		telemetry.Warn("extract.engine.init_failed", map[string]any{"binary": e.binary, "err": err.Error()})
		return e
	}
	e.scratch = scratch

	telemetry.Info("extract.engine.ready", map[string]any{"binary": e.binary, "lang": e.lang})
	return e
}

// Ready reports whether the engine initialized successfully.
func (e *Engine) Ready() bool {
	return e != nil && e.initErr == nil
}

// Close releases the engine's scratch directory. Safe to call on an engine
// that never initialized.
func (e *Engine) Close() error {
	if e == nil || e.scratch == "" {
		return nil
	}
	err := os.RemoveAll(e.scratch)
	e.scratch = ""
	return err
}

// Recognize runs OCR over the given image bytes and returns the raw text.
func (e *Engine) Recognize(ctx context.Context, imageData []byte) (string, error) {
	if !e.Ready() {
		return "", e.initErr
	}

	tmp := filepath.Join(e.scratch, uuid.NewString()+".png")
	if err := os.WriteFile(tmp, imageData, 0o600); err != nil {
		return "", fmt.Errorf("write scratch image: %w", err)
	}
	defer os.Remove(tmp)

	args := []string{tmp, "stdout", "-l", e.lang}
	out, stderr, err := e.runner.Run(ctx, e.binary, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(stderr), 512))
	}
	return string(out), nil
}
