// Package tui is the interactive terminal front end of the shopping
// assistant. It renders the conversation held by a session.Session and
// feeds it from a composer.Composer.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/composer"
	"github.com/papercomputeco/shopgpt/pkg/session"
)

const (
	headerHeight = 1
	statusHeight = 1
	inputHeight  = 3

	// inputChrome is the border around the input box.
	inputChrome = 2
)

// Options configures the chat screen.
type Options struct {
	// Greeting seeds the conversation. Empty means no greeting.
	Greeting string

	// NoColor renders plain text.
	NoColor bool

	// Title is shown in the header.
	Title string
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx     context.Context
	logger  *zap.Logger
	sess    *session.Session
	sender  *sessionSender
	compose *composer.Composer
	status  *statusLine
	opts    Options
	styles  Styles

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// rendered caches glamour output per message hash at the current width.
	rendered map[string]string

	width  int
	height int
	ready  bool
}

// statusLine is shared by every copy of the Model so the session's
// notifier can reach the one being rendered.
type statusLine struct {
	err string
}

func (s *statusLine) NotifyFailure(err error) {
	s.err = err.Error()
}

// New creates the chat screen for a conversation over transport.
func New(ctx context.Context, transport session.Transport, logger *zap.Logger, opts Options) Model {
	if opts.NoColor {
		useASCII()
	}
	if opts.Title == "" {
		opts.Title = "shopgpt"
	}

	status := &statusLine{}
	sess := session.New(transport, logger,
		session.WithGreeting(opts.Greeting),
		session.WithNotifier(status),
	)
	sender := &sessionSender{sess: sess}

	ta := textarea.New()
	ta.Placeholder = "What are you shopping for?"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		logger:   logger,
		sess:     sess,
		sender:   sender,
		compose:  composer.New(sender),
		status:   status,
		opts:     opts,
		styles:   DefaultStyles(),
		textarea: ta,
		spinner:  sp,
		rendered: make(map[string]string),
	}
}

// Session returns the conversation behind the screen.
func (m Model) Session() *session.Session {
	return m.sess
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exchangeDoneMsg:
		if _, err := m.sess.Finish(msg.outcome); err == nil {
			m.status.err = ""
		}
		m.refresh()
		return m, nil
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.sess.Ended() && !m.sess.Pending() {
		return m, tea.Quit
	}

	switch composer.Classify(msg.String()) {
	case composer.Submit:
		return m.submit()
	case composer.Newline:
		m.textarea.InsertString("\n")
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	draft := m.textarea.Value()
	if composer.IsQuitWord(draft) {
		return m, tea.Quit
	}

	m.compose.SetDraft(draft)
	if !m.compose.Submit() {
		return m, nil
	}

	m.textarea.Reset()
	m.status.err = ""
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.sender.take(m.ctx))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := max(height-headerHeight-statusHeight-inputHeight-inputChrome, 1)
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(max(width-inputChrome, 1))

	renderer, err := newRenderer(width, m.opts.NoColor)
	if err != nil {
		m.logger.Warn("could not create markdown renderer", zap.Error(err))
		renderer = nil
	}
	m.renderer = renderer
	clear(m.rendered)

	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func newRenderer(width int, noColor bool) (*glamour.TermRenderer, error) {
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	return glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(max(width-4, 20)),
	)
}

// markdown renders assistant text, caching by message hash.
func (m *Model) markdown(hash, text string) string {
	if out, ok := m.rendered[hash]; ok && hash != "" {
		return out
	}
	if m.renderer == nil {
		return text
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		m.logger.Debug("could not render markdown", zap.Error(err))
		return text
	}
	out = strings.Trim(out, "\n")
	if hash != "" {
		m.rendered[hash] = out
	}
	return out
}
