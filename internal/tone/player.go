package tone

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"japa/internal/logging"
)

// Player plays the count tone. Implementations swallow their own errors.
type Player interface {
	PlayCompletionTone()
}

// Nop plays nothing.
type Nop struct{}

func (Nop) PlayCompletionTone() {}

// TerminalBell rings the terminal bell by writing BEL.
type TerminalBell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminalBell writes to out, or to stderr when out is nil.
func NewTerminalBell(out io.Writer) *TerminalBell {
	if out == nil {
		out = os.Stderr
	}
	return &TerminalBell{out: out}
}

func (b *TerminalBell) PlayCompletionTone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.out, "\a"); err != nil {
		logging.AudioWarn("terminal bell failed: %v", err)
	}
}

// DefaultCommands are tried in order when no audio command is configured.
var DefaultCommands = []string{"paplay", "aplay", "afplay"}

// CommandPlayer renders the bell to a WAV file once and plays it through an
// external audio command. Each play runs in its own goroutine; Wait blocks
// until all of them have exited.
type CommandPlayer struct {
	command string
	wavPath string
	timeout time.Duration
	wg      sync.WaitGroup

	// run is swapped in tests.
	run func(ctx context.Context, name string, args ...string) error
}

// CommandOptions configures NewCommandPlayer.
type CommandOptions struct {
	// Command is the player binary; empty means the first of DefaultCommands on PATH.
	Command    string
	CacheDir   string
	SampleRate int
	Gain       float64
	Timeout    time.Duration
}

// NewCommandPlayer locates an audio command and writes the bell WAV into
// CacheDir. It returns an error when audio is unavailable so the caller can
// fall back to another Player.
func NewCommandPlayer(opts CommandOptions) (*CommandPlayer, error) {
	cmd, err := findCommand(opts.Command)
	if err != nil {
		return nil, err
	}
	if opts.CacheDir == "" {
		opts.CacheDir = os.TempDir()
	}
	if opts.Gain <= 0 {
		opts.Gain = DefaultGain
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if err := os.MkdirAll(opts.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio cache dir: %w", err)
	}

	wavPath := filepath.Join(opts.CacheDir, "bell.wav")
	wav := EncodeWAV(Bell(opts.SampleRate), opts.SampleRate, opts.Gain)
	if err := os.WriteFile(wavPath, wav, 0644); err != nil {
		return nil, fmt.Errorf("failed to write bell: %w", err)
	}
	logging.AudioDebug("Using %s with %s", cmd, wavPath)

	return &CommandPlayer{
		command: cmd,
		wavPath: wavPath,
		timeout: opts.Timeout,
		run:     runCommand,
	}, nil
}

func findCommand(preferred string) (string, error) {
	candidates := DefaultCommands
	if preferred != "" {
		candidates = []string{preferred}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no audio command found (tried %v)", candidates)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Command returns the resolved audio command.
func (p *CommandPlayer) Command() string {
	return p.command
}

func (p *CommandPlayer) PlayCompletionTone() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.run(ctx, p.command, p.wavPath); err != nil {
			logging.AudioWarn("%s failed: %v", p.command, err)
		}
	}()
}

// Wait blocks until every started playback has finished.
func (p *CommandPlayer) Wait() {
	p.wg.Wait()
}

// Modes accepted by New.
const (
	ModeOff     = "off"
	ModeBell    = "bell"
	ModeCommand = "command"
)

// New builds the player for mode. A command player that cannot find audio
// degrades to the terminal bell.
func New(mode string, opts CommandOptions, out io.Writer) Player {
	switch mode {
	case ModeOff:
		return Nop{}
	case ModeCommand:
		p, err := NewCommandPlayer(opts)
		if err != nil {
			logging.AudioWarn("audio unavailable, using terminal bell: %v", err)
			return NewTerminalBell(out)
		}
		return p
	default:
		return NewTerminalBell(out)
	}
}
