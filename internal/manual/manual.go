// Package manual implements the points in a run where the suite hands control
// to a human operator, such as solving a CAPTCHA or confirming a form.
package manual

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/config"
)

// Action describes what the operator is expected to do.
type Action struct {
	Name         string
	Instructions string
	// Window bounds how long the gate waits. Zero means no bound for gates
	// that wait on the operator.
	Window time.Duration
}

// Gate blocks until the operator is done with an Action, the window
// elapses, or ctx is cancelled.
type Gate interface {
	Await(ctx context.Context, a Action) error
}

// New returns the gate configured by cfg.Mode. in and out are used by the
// prompt gate.
func New(cfg config.ManualConfig, log zerolog.Logger, in io.Reader, out io.Writer) (Gate, error) {
	switch cfg.Mode {
	case config.ManualTimed, "":
		return &TimedGate{Log: log}, nil
	case config.ManualPrompt:
		return NewPromptGate(in, out, log), nil
	case config.ManualFile:
		if cfg.ResumeDir == "" {
			return nil, errors.New("manual: file mode needs a resume directory")
		}
		return &FileGate{Config: cfg, Log: log}, nil
	case config.ManualNone:
		return NoopGate{}, nil
	default:
		return nil, fmt.Errorf("manual: unknown mode %q", cfg.Mode)
	}
}

// TimedGate waits out the whole window, giving an attended operator a fixed
// amount of time to act.
type TimedGate struct {
	Log zerolog.Logger
	// After replaces time.After.
	After func(time.Duration) <-chan time.Time
}

func (g *TimedGate) Await(ctx context.Context, a Action) error {
	if a.Window <= 0 {
		return nil
	}
	after := g.After
	if after == nil {
		after = time.After
	}
	g.Log.Warn().Str("action", a.Name).Dur("window", a.Window).Msg(a.Instructions)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(a.Window):
		g.Log.Info().Str("action", a.Name).Msg("manual window elapsed, resuming")
		return nil
	}
}

// PromptGate waits for the operator to press Enter. One reader goroutine
// serves every Await, so a cancelled wait leaves no second reader behind.
// Await must not be called concurrently.
type PromptGate struct {
	in    *bufio.Reader
	out   io.Writer
	log   zerolog.Logger
	start sync.Once
	lines chan error
	// done is set once the input has ended or failed
	done error
}

func NewPromptGate(in io.Reader, out io.Writer, log zerolog.Logger) *PromptGate {
	return &PromptGate{in: bufio.NewReader(in), out: out, log: log, lines: make(chan error)}
}

func (g *PromptGate) read() {
	for {
		_, err := g.in.ReadString('\n')
		g.lines <- err
		if err != nil {
			return
		}
	}
}

func (g *PromptGate) Await(ctx context.Context, a Action) error {
	fmt.Fprintf(g.out, "\n>>> %s\n>>> press Enter to continue: ", a.Instructions)
	g.log.Warn().Str("action", a.Name).Msg("waiting for operator")

	err := g.done
	if err == nil {
		g.start.Do(func() { go g.read() })
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err = <-g.lines:
			if err != nil {
				g.done = err
			}
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("manual: reading operator input: %w", err)
	}
	g.log.Info().Str("action", a.Name).Msg("operator resumed")
	return nil
}

// FileGate waits for the operator to create <resume_dir>/<action>.resume,
// which suits unattended terminals. The file is removed once seen.
type FileGate struct {
	Config config.ManualConfig
	Log    zerolog.Logger
}

func (g *FileGate) Await(ctx context.Context, a Action) error {
	if err := os.MkdirAll(g.Config.ResumeDir, 0o755); err != nil {
		return fmt.Errorf("manual: creating resume dir: %w", err)
	}
	target := g.Config.ResumeFile(a.Name)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("manual: creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(g.Config.ResumeDir); err != nil {
		return fmt.Errorf("manual: watching %s: %w", g.Config.ResumeDir, err)
	}

	// checked after the watch is in place so a file created in between is not missed
	if consume(target) {
		g.Log.Info().Str("action", a.Name).Msg("resume file already present")
		return nil
	}
	g.Log.Warn().Str("action", a.Name).Str("resume_file", target).Dur("window", a.Window).Msg(a.Instructions)

	var expired <-chan time.Time
	if a.Window > 0 {
		timer := time.NewTimer(a.Window)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			g.Log.Warn().Str("action", a.Name).Msg("no resume file within window, resuming")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("manual: watcher closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(target) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				consume(target)
				g.Log.Info().Str("action", a.Name).Msg("resume file detected")
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("manual: watcher closed")
			}
			g.Log.Error().Err(err).Msg("resume watcher error")
		}
	}
}

// consume removes path and reports whether it existed.
func consume(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	_ = os.Remove(path)
	return true
}

// NoopGate returns immediately. It is for runs against environments with no
// CAPTCHA and for tests.
type NoopGate struct{}

func (NoopGate) Await(ctx context.Context, _ Action) error {
	return ctx.Err()
}
