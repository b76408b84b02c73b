package ui

import (
	"fmt"
	"strings"
	"time"

	"japa/internal/logging"
	"japa/internal/tally"
	"japa/internal/tone"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Counter is the part of tally.Store the screen drives.
type Counter interface {
	State() tally.State
	SetSize() int64
	Increment() tally.Increment
	ResetSession() tally.State
	ToggleSound() bool
}

// Options configures the screen.
type Options struct {
	Mantra         string
	BannerText     string
	BannerDuration time.Duration
	PulseDuration  time.Duration
	Styles         Styles
}

// bannerExpiredMsg dismisses the banner it was scheduled for.
type bannerExpiredMsg struct{ id int }

// pulseEndedMsg ends the counter highlight it was scheduled for.
type pulseEndedMsg struct{ id int }

// Model is the bubbletea model for the counter screen.
type Model struct {
	counter  Counter
	player   tone.Player
	opts     Options
	keys     keyMap
	help     help.Model
	progress progress.Model

	state       tally.State
	mantraShown bool
	pulsing     bool
	pulseID     int
	bannerShown bool
	bannerID    int
	width       int
}

// New builds the screen around counter. A nil player disables sound output.
func New(counter Counter, player tone.Player, opts Options) Model {
	if opts.BannerDuration <= 0 {
		opts.BannerDuration = 3 * time.Second
	}
	if opts.PulseDuration <= 0 {
		opts.PulseDuration = 500 * time.Millisecond
	}
	if player == nil {
		player = tone.Nop{}
	}

	bar := progress.New(
		progress.WithSolidFill(string(opts.Styles.Theme.Primary)),
		progress.WithoutPercentage(),
	)
	bar.Width = 30

	return Model{
		counter:  counter,
		player:   player,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: bar,
		state:    counter.State(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 16; w > 10 && w < 60 {
			m.progress.Width = w
		}
		return m, nil

	case pulseEndedMsg:
		if msg.id == m.pulseID {
			m.pulsing = false
		}
		return m, nil

	case bannerExpiredMsg:
		if msg.id == m.bannerID {
			m.bannerShown = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Count):
		return m.count()

	case key.Matches(msg, m.keys.Reset):
		m.state = m.counter.ResetSession()
		return m, nil

	case key.Matches(msg, m.keys.Sound):
		enabled := m.counter.ToggleSound()
		m.state = m.counter.State()
		logging.UIDebug("sound toggled: %v", enabled)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m Model) count() (tea.Model, tea.Cmd) {
	res := m.counter.Increment()
	m.state = res.State
	m.mantraShown = true

	m.pulseID++
	m.pulsing = true
	pulseID := m.pulseID
	cmds := []tea.Cmd{
		tea.Tick(m.opts.PulseDuration, func(time.Time) tea.Msg { return pulseEndedMsg{id: pulseID} }),
	}

	if res.SetCompleted {
		m.bannerID++
		m.bannerShown = true
		bannerID := m.bannerID
		cmds = append(cmds, tea.Tick(m.opts.BannerDuration, func(time.Time) tea.Msg {
			return bannerExpiredMsg{id: bannerID}
		}))
		logging.UIDebug("set %d completed, banner %d shown", res.State.SetCount, bannerID)
	}

	// The store has already persisted; playback cannot affect the state.
	if res.PlayTone {
		m.player.PlayCompletionTone()
	}
	return m, tea.Batch(cmds...)
}

// State returns the counters as last rendered.
func (m Model) State() tally.State {
	return m.state
}

// BannerVisible reports whether the completion banner is on screen.
func (m Model) BannerVisible() bool {
	return m.bannerShown
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.opts.Styles
	var b strings.Builder

	sound := s.Muted.Render("sound off")
	if m.state.SoundEnabled {
		sound = s.SoundOn.Render("sound on")
	}
	b.WriteString(s.Header.Render("japa") + "  " + sound + "\n\n")

	counterStyle := s.Counter
	if m.pulsing {
		counterStyle = s.Pulse
	}
	b.WriteString(counterStyle.Render(FormatCount(m.state.SessionCount)) + "\n")

	if m.mantraShown && m.opts.Mantra != "" {
		b.WriteString(s.Mantra.Render(m.opts.Mantra) + "\n")
	}
	b.WriteString("\n")

	size := m.counter.SetSize()
	done := m.state.ProgressInSet(size)
	b.WriteString(m.progress.ViewAs(float64(done)/float64(size)))
	b.WriteString(s.Muted.Render(fmt.Sprintf("  %d/%d", done, size)) + "\n\n")

	b.WriteString(m.renderStats() + "\n")

	if m.bannerShown && m.opts.BannerText != "" {
		b.WriteString("\n" + s.Banner.Render(m.opts.BannerText) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return s.App.Render(b.String())
}

func (m Model) renderStats() string {
	s := m.opts.Styles
	cell := func(label string, v int64) string {
		return s.Label.Render(label) + " " + s.Value.Render(FormatCount(v))
	}
	counts := lipgloss.JoinVertical(lipgloss.Left,
		cell("Today ", m.state.TodayCount),
		cell("Week  ", m.state.WeekCount),
		cell("Total ", m.state.LifetimeCount),
	)
	sets := lipgloss.JoinVertical(lipgloss.Left,
		cell("Malas today", m.state.TodaySetCount),
		cell("Malas week ", m.state.WeekSetCount),
		cell("Malas total", m.state.SetCount),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, s.Card.Render(counts), " ", s.Card.Render(sets))
}
