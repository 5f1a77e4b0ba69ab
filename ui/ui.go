// Package ui provides the interactive podcast form for podgen.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/dgnsrekt/podgen/internal/speech"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	playbackPollInterval = time.Millisecond * 250
	ellipsis             = "…"

	// lines used by everything but the script viewport
	chromeHeight = 11
)

// Pipeline runs the two podcast stages separately so progress can be shown
// between them.
type Pipeline interface {
	Script(ctx context.Context, topic string, fresh bool) (string, bool, error)
	Render(ctx context.Context, topic, text, filename string) (speech.Artifact, error)
	OutputDir() string
}

// Player plays a finished episode.
type Player interface {
	Play(path string) error
	Stop() error
	IsPlaying() bool
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, pipeline Pipeline, player Player) *tea.Program {
	log.Debug("Starting podgen TUI", "glamour", cfg.GlamourEnabled, "output_dir", cfg.OutputDir)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, pipeline, player), opts...)
}

// state is the top-level application state.
type state int

const (
	stateInput state = iota
	stateGenerating
	stateSynthesizing
	stateResult
)

func (s state) String() string {
	return map[state]string{
		stateInput:        "waiting for a topic",
		stateGenerating:   "generating script",
		stateSynthesizing: "synthesizing audio",
		stateResult:       "showing result",
	}[s]
}

type bannerKind int

const (
	bannerNone bannerKind = iota
	bannerSuccess
	bannerWarning
	bannerError
)

type banner struct {
	kind bannerKind
	text string
}

type (
	scriptMsg struct {
		topic  string
		text   string
		cached bool
	}
	renderedMsg struct {
		artifact speech.Artifact
	}
	failedMsg struct {
		err error
	}
	playbackTickMsg         struct{}
	statusMessageTimeoutMsg struct{}
)

type model struct {
	cfg      Config
	pipeline Pipeline
	player   Player

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
	state  state

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	topic    string
	script   string
	cached   bool
	artifact speech.Artifact
	playing  bool

	banner        banner
	statusMessage string
	statusTimer   int
}

func newModel(cfg Config, pipeline Pipeline, player Player) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if lipgloss.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = pipeline.OutputDir()
	}

	ti := textinput.New()
	ti.Placeholder = "The future of renewable energy"
	ti.CharLimit = podcast.MaxTopicRunes
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(purple)))

	ctx, cancel := context.WithCancel(context.Background())
	return model{
		cfg:      cfg,
		pipeline: pipeline,
		player:   player,
		ctx:      ctx,
		cancel:   cancel,
		width:    80,
		height:   24,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 24-chromeHeight),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) busy() bool {
	return m.state == stateGenerating || m.state == stateSynthesizing
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.stopPlayback()
			return m, tea.Quit
		}
		// Input is ignored while a run is in flight.
		if m.busy() {
			return m, nil
		}
		if m.state == stateResult {
			return m.handleResultKeys(msg)
		}
		return m.handleInputKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-chromeHeight)
		if m.script != "" {
			m.viewport.SetContent(m.renderScript())
		}

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case scriptMsg:
		m.topic = msg.topic
		m.script = msg.text
		m.cached = msg.cached
		m.state = stateSynthesizing
		m.viewport.SetContent(m.renderScript())
		m.viewport.GotoTop()
		cmds = append(cmds, m.renderCmd())

	case renderedMsg:
		m.artifact = msg.artifact
		m.state = stateResult
		m.banner = banner{bannerSuccess, "Podcast generated successfully!"}

	case failedMsg:
		m.banner = banner{bannerError, podcast.Message(msg.err)}
		if errors.Is(msg.err, podcast.ErrSynthesis) && m.script != "" {
			// The script is still worth reading.
			m.state = stateResult
			m.artifact = speech.Artifact{}
		} else {
			m.state = stateInput
			m.script = ""
			cmds = append(cmds, m.input.Focus())
		}

	case playbackTickMsg:
		m.playing = m.player != nil && m.player.IsPlaying()
		if m.playing {
			cmds = append(cmds, playbackTick())
		}

	case statusMessageTimeoutMsg:
		m.statusTimer--
		if m.statusTimer <= 0 {
			m.statusMessage = ""
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.start(m.input.Value(), false)
	case "ctrl+r":
		return m.start(m.input.Value(), true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopPlayback()
		m.state = stateInput
		m.banner = banner{}
		cmd := m.input.Focus()
		return m, cmd

	case "ctrl+r":
		m.stopPlayback()
		return m.start(m.topic, true)

	case "p":
		return m.togglePlayback()

	case "c":
		if err := writeClipboard(m.script); err != nil {
			log.Warn("Could not copy script", "error", err)
			return m.showStatus("Could not copy: " + err.Error())
		}
		return m.showStatus("Copied script to clipboard")

	case "q":
		m.cancel()
		m.stopPlayback()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// start validates topic and kicks off script generation. Invalid topics
// produce a warning and no remote call.
func (m model) start(topic string, fresh bool) (tea.Model, tea.Cmd) {
	topic, err := podcast.ValidateTopic(topic)
	if err != nil {
		m.banner = banner{bannerWarning, podcast.Message(err)}
		return m, nil
	}

	m.input.SetValue(topic)
	m.input.Blur()
	m.topic = topic
	m.script = ""
	m.artifact = speech.Artifact{}
	m.banner = banner{}
	m.state = stateGenerating
	log.Debug("Starting run", "topic", topic, "fresh", fresh)
	return m, tea.Batch(m.spinner.Tick, m.generateCmd(topic, fresh))
}

func (m model) generateCmd(topic string, fresh bool) tea.Cmd {
	ctx, pipeline := m.ctx, m.pipeline
	return func() tea.Msg {
		text, cached, err := pipeline.Script(ctx, topic, fresh)
		if err != nil {
			return failedMsg{err}
		}
		return scriptMsg{topic: topic, text: text, cached: cached}
	}
}

func (m model) renderCmd() tea.Cmd {
	ctx, pipeline := m.ctx, m.pipeline
	topic, text := m.topic, m.script
	return func() tea.Msg {
		art, err := pipeline.Render(ctx, topic, text, "")
		if err != nil {
			return failedMsg{err}
		}
		return renderedMsg{art}
	}
}

func (m model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.player == nil || m.artifact.Path == "" {
		return m, nil
	}
	if m.player.IsPlaying() {
		m.stopPlayback()
		m.playing = false
		return m, nil
	}
	if err := m.player.Play(m.artifact.Path); err != nil {
		log.Warn("Could not play episode", "path", m.artifact.Path, "error", err)
		return m.showStatus("Could not play: " + err.Error())
	}
	m.playing = true
	return m, playbackTick()
}

func (m model) stopPlayback() {
	if m.player != nil {
		_ = m.player.Stop()
	}
}

func (m model) showStatus(s string) (tea.Model, tea.Cmd) {
	m.statusMessage = s
	m.statusTimer++
	return m, tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{}
	})
}

func playbackTick() tea.Cmd {
	return tea.Tick(playbackPollInterval, func(time.Time) tea.Msg {
		return playbackTickMsg{}
	})
}

// renderScript formats the script for the viewport.
func (m model) renderScript() string {
	width := m.width
	if m.cfg.GlamourMaxWidth > 0 && int(m.cfg.GlamourMaxWidth) < width { //nolint:gosec
		width = int(m.cfg.GlamourMaxWidth) //nolint:gosec
	}

	if m.cfg.GlamourEnabled {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.cfg.GlamourStyle),
			glamour.WithWordWrap(max(20, width-4)),
		)
		if err == nil {
			out, err := r.Render(m.script)
			if err == nil {
				return out
			}
		}
		log.Debug("Falling back to plain script rendering", "error", err)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(wordwrap.String(m.script, max(20, width-4)))
}

func (m model) View() string {
	var b strings.Builder

	title := "AI Podcast Generator"
	if m.topic != "" && m.state != stateInput {
		title = runewidth.Truncate(title+" · "+m.topic, max(10, m.width-2), ellipsis)
	}
	fmt.Fprintf(&b, "\n%s\n\n", titleStyle.Render(title))

	fmt.Fprintf(&b, " %s\n %s\n\n", subtleStyle.Render("Enter a topic for your podcast:"), m.input.View())

	switch m.state {
	case stateGenerating:
		fmt.Fprintf(&b, " %s Generating podcast script...\n", m.spinner.View())
	case stateSynthesizing:
		fmt.Fprintf(&b, " %s Converting script text to speech...\n", m.spinner.View())
		b.WriteString(m.viewport.View() + "\n")
	case stateResult:
		b.WriteString(m.bannerView())
		b.WriteString(m.viewport.View() + "\n")
		b.WriteString(m.footerView())
	default:
		b.WriteString(m.bannerView())
	}

	b.WriteString("\n" + helpStyle.Render(m.helpView()))
	return b.String()
}

func (m model) bannerView() string {
	var style lipgloss.Style
	switch m.banner.kind {
	case bannerSuccess:
		style = successStyle
	case bannerWarning:
		style = warningStyle
	case bannerError:
		style = errorStyle
	default:
		return ""
	}
	return style.Width(max(20, m.width-2)).Render(m.banner.text) + "\n"
}

func (m model) footerView() string {
	if m.statusMessage != "" {
		return " " + successStyle.UnsetPadding().Render(m.statusMessage) + "\n"
	}
	if m.artifact.Path == "" {
		return ""
	}

	parts := []string{
		m.artifact.Path,
		humanize.Bytes(uint64(m.artifact.Size)), //nolint:gosec
	}
	if m.cached {
		parts = append(parts, "cached script")
	}
	if m.playing {
		parts = append(parts, "▶ playing")
	}
	line := runewidth.Truncate(strings.Join(parts, " · "), max(10, m.width-2), ellipsis)
	return " " + subtleStyle.Render(line) + "\n"
}

func (m model) helpView() string {
	switch m.state {
	case stateGenerating, stateSynthesizing:
		return "ctrl+c quit"
	case stateResult:
		if m.artifact.Path == "" {
			return "↑/↓ scroll • ctrl+r regenerate • c copy script • esc new topic • q quit"
		}
		return "↑/↓ scroll • p play/stop • c copy script • ctrl+r regenerate • esc new topic • q quit"
	default:
		return "enter generate • ctrl+r regenerate (skip cache) • ctrl+c quit"
	}
}
