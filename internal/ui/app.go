// Package ui is the interactive terminal front end: a source editor on one
// side and the three result panels on the other.
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/pyscope/internal/logger"
	"github.com/yildizm/pyscope/internal/render"
	"github.com/yildizm/pyscope/internal/session"
	"github.com/yildizm/pyscope/internal/tutor"
	"github.com/yildizm/pyscope/internal/watch"
)

// ErrorInputPlaceholder is shown in the empty error message input
const ErrorInputPlaceholder = "例: NameError: name 'x' is not defined"

const defaultToastDuration = 4 * time.Second

// Options configures the TUI model
type Options struct {
	Backend session.Backend

	// Initial panel and editor contents; empty Source shows the placeholder
	Initial     session.Kind
	Source      string
	Placeholder string

	Theme         string
	Color         bool
	ToastDuration time.Duration

	// Reloads delivers watched file contents; AutoAnalyze runs the active
	// panel after each one
	Reloads     <-chan watch.Event
	AutoAnalyze bool

	Logger *logger.Logger

	// Clipboard writes text to the system clipboard; defaults to atotto/clipboard
	Clipboard func(string) error
}

type focusArea int

const (
	focusEditor focusArea = iota
	focusErrorInput
	focusPanel
)

type toast struct {
	level session.NoticeLevel
	text  string
}

// Model is the Bubble Tea model for the TUI
type Model struct {
	session *session.Session
	backend session.Backend

	editor     textarea.Model
	errorInput textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	help       help.Model
	keys       KeyMap

	styles    *Styles
	formatter render.Formatter

	focus     focusArea
	stepIndex int

	toast         *toast
	toastSeq      uint64
	toastDuration time.Duration

	width    int
	height   int
	layout   layout
	ready    bool
	quitting bool

	reloads     <-chan watch.Event
	autoAnalyze bool
	copy        func(string) error
	log         *logger.Logger
}

// New creates the TUI model
func New(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = session.Placeholder
	}

	sess := session.New(session.Options{
		Initial:     opts.Initial,
		Placeholder: placeholder,
		Logger:      log,
	})
	sess.OnComplete(func(cmd session.Command) {
		log.DebugWithFields("panel updated", []logger.Field{logger.ID(cmd.ID), logger.F("target", cmd.Target)})
	})

	source := opts.Source
	if source == "" {
		source = placeholder
	}
	sess.SetSource(source)

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetValue(source)
	editor.Focus()

	errorInput := textarea.New()
	errorInput.Placeholder = ErrorInputPlaceholder
	errorInput.ShowLineNumbers = false
	errorInput.CharLimit = 0
	errorInput.SetHeight(3)

	s := spinner.New()
	s.Spinner = spinner.Dot

	theme, ok := ThemeByName(opts.Theme)
	if !ok {
		log.Warn("unknown theme %q, using default", opts.Theme)
	}
	color := opts.Color && !IsColorDisabled()
	styles := NewStyles(theme, color)
	s.Style = styles.Label

	toastDuration := opts.ToastDuration
	if toastDuration <= 0 {
		toastDuration = defaultToastDuration
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := &Model{
		session:       sess,
		backend:       opts.Backend,
		editor:        editor,
		errorInput:    errorInput,
		viewport:      viewport.New(0, 0),
		spinner:       s,
		help:          help.New(),
		keys:          DefaultKeyMap(),
		styles:        styles,
		formatter:     render.NewTerminal(color),
		focus:         focusEditor,
		toastDuration: toastDuration,
		reloads:       opts.Reloads,
		autoAnalyze:   opts.AutoAnalyze,
		copy:          copyFn,
		log:           log.WithComponent("tui"),
	}
	m.syncKeys()
	m.refresh()
	return m
}

// Session exposes the underlying session
func (m *Model) Session() *session.Session {
	return m.session
}

// Init starts listening for file reloads
func (m *Model) Init() tea.Cmd {
	return waitForReload(m.reloads)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case outcomeMsg:
		return m.handleOutcome(msg)
	case sourceReloadedMsg:
		return m.handleReload(msg)
	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}

	// cursor blink and other component messages
	var cmd tea.Cmd
	switch m.focus {
	case focusErrorInput:
		m.errorInput, cmd = m.errorInput.Update(msg)
	case focusEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.ready = true
	m.resize()
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Analyze):
		return m, m.analyze(session.OriginAnalyzeButton)
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitError()
	case key.Matches(msg, m.keys.NextPanel):
		return m, m.selectPanel(m.session.Active().Next())
	case key.Matches(msg, m.keys.PrevPanel):
		return m, m.selectPanel(m.session.Active().Prev())
	case key.Matches(msg, m.keys.Panel1):
		return m, m.selectPanel(session.KindAnalysis)
	case key.Matches(msg, m.keys.Panel2):
		return m, m.selectPanel(session.KindVisualization)
	case key.Matches(msg, m.keys.Panel3):
		return m, m.selectPanel(session.KindError)
	case key.Matches(msg, m.keys.Focus):
		return m, m.cycleFocus()
	case key.Matches(msg, m.keys.CopyError):
		return m, m.copyErrorText()
	case key.Matches(msg, m.keys.CopyTutor):
		return m, m.copyTutorPrompt()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearHighlight()
		m.refresh()
		return m, nil
	}

	switch m.focus {
	case focusPanel:
		return m, m.handlePanelKey(msg)
	case focusErrorInput:
		return m, m.updateErrorInput(msg)
	default:
		return m, m.updateEditor(msg)
	}
}

// handlePanelKey moves the step cursor on the visualization panel and
// scrolls the panel otherwise
func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	if steps := m.steps(); steps > 0 {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.stepIndex > 0 {
				m.stepIndex--
			}
			m.refresh()
			return nil
		case key.Matches(msg, m.keys.Down):
			if m.stepIndex < steps-1 {
				m.stepIndex++
			}
			m.refresh()
			return nil
		case key.Matches(msg, m.keys.Highlight):
			if m.session.SelectStep(m.stepIndex) {
				m.refresh()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.session.SetSource(after)
		m.refresh()
	}
	return cmd
}

func (m *Model) updateErrorInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.errorInput, cmd = m.errorInput.Update(msg)
	m.session.SetErrorMessage(m.errorInput.Value())
	return cmd
}

// analyze issues the shared Analyze command to the active panel
func (m *Model) analyze(origin session.Origin) tea.Cmd {
	cmd, ok := m.session.AnalyzeFrom(origin)
	if !ok {
		return nil
	}
	return m.dispatch(cmd)
}

func (m *Model) submitError() tea.Cmd {
	if m.session.Active() != session.KindError {
		return nil
	}
	cmd, ok := m.session.SubmitError()
	if !ok {
		return nil
	}
	return m.dispatch(cmd)
}

func (m *Model) dispatch(cmd session.Command) tea.Cmd {
	job, ok := m.session.Dispatch(cmd)
	m.syncKeys()
	m.refresh()
	if !ok {
		return nil
	}
	m.log.DebugWithFields("job started", []logger.Field{logger.ID(cmd.ID), logger.F("target", cmd.Target)})
	return tea.Batch(runJob(job, m.backend), m.spinner.Tick)
}

func (m *Model) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	before := m.session.Visualization().Result()
	m.session.Complete(msg.outcome)
	if m.session.Visualization().Result() != before {
		m.stepIndex = 0
	}
	m.syncKeys()
	cmd := m.showNotices()
	m.refresh()
	return m, cmd
}

func (m *Model) handleReload(msg sourceReloadedMsg) (tea.Model, tea.Cmd) {
	ev := msg.event
	next := waitForReload(m.reloads)

	if ev.Err != nil {
		m.log.Warn("reload failed: %v", ev.Err)
		return m, tea.Batch(next, m.setToast(session.NoticeError, fmt.Sprintf("%s の読み込みに失敗しました", filepath.Base(ev.Path))))
	}

	m.editor.SetValue(ev.Content)
	m.session.SetSource(ev.Content)
	m.session.Notify(m.session.Active(), "%s を再読み込みしました", filepath.Base(ev.Path))

	cmds := []tea.Cmd{next, m.showNotices()}
	if m.autoAnalyze {
		cmds = append(cmds, m.analyze(session.OriginWatcher))
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if !m.anyLoading() {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) selectPanel(kind session.Kind) tea.Cmd {
	if kind == m.session.Active() {
		return nil
	}
	m.session.Select(kind)

	var cmd tea.Cmd
	if kind != session.KindError && m.focus == focusErrorInput {
		cmd = m.setFocus(focusEditor)
	}
	m.syncKeys()
	m.resize()
	m.viewport.GotoTop()
	return cmd
}

// cycleFocus moves focus editor -> error input (error tab only) -> panel
func (m *Model) cycleFocus() tea.Cmd {
	next := focusEditor
	switch m.focus {
	case focusEditor:
		if m.session.Active() == session.KindError {
			next = focusErrorInput
		} else {
			next = focusPanel
		}
	case focusErrorInput:
		next = focusPanel
	}
	return m.setFocus(next)
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.syncKeys()
	m.editor.Blur()
	m.errorInput.Blur()
	switch f {
	case focusEditor:
		return m.editor.Focus()
	case focusErrorInput:
		return m.errorInput.Focus()
	}
	return nil
}

// copyErrorText copies the active panel's failure message
func (m *Model) copyErrorText() tea.Cmd {
	var text string
	switch m.session.Active() {
	case session.KindAnalysis:
		if res := m.session.Analysis().Result(); res != nil && !res.Success {
			text = res.FailureMessage()
		}
	case session.KindVisualization:
		if res := m.session.Visualization().Result(); res != nil && !res.Success {
			text = res.FailureMessage()
		}
	}
	if text == "" {
		return m.setToast(session.NoticeInfo, "コピーできるエラーはありません")
	}
	return m.copyText(text, "エラーメッセージをコピーしました")
}

// copyTutorPrompt copies a question about the current error analysis
func (m *Model) copyTutorPrompt() tea.Cmd {
	panel := m.session.ErrorPanel()
	if panel.Result() == nil {
		return m.setToast(session.NoticeInfo, "先にエラーを解析してください")
	}
	prompt := tutor.ErrorPrompt(m.session.Source(), panel.Message(), panel.Result())
	return m.copyText(tutor.Text(prompt), "質問文をコピーしました")
}

func (m *Model) copyText(text, done string) tea.Cmd {
	if err := m.copy(text); err != nil {
		m.log.Warn("clipboard write failed: %v", err)
		return m.setToast(session.NoticeError, "クリップボードにコピーできませんでした")
	}
	return m.setToast(session.NoticeInfo, done)
}

// showNotices displays the newest queued notice
func (m *Model) showNotices() tea.Cmd {
	notices := m.session.Notices()
	if len(notices) == 0 {
		return nil
	}
	n := notices[len(notices)-1]
	return m.setToast(n.Level, n.Message)
}

func (m *Model) setToast(level session.NoticeLevel, text string) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{level: level, text: text}
	return clearToastAfter(m.toastSeq, m.toastDuration)
}

// syncKeys enables the bindings that apply to the active panel and focus.
// Submit stays off while the editor has focus so ctrl+e reaches the textarea.
func (m *Model) syncKeys() {
	onError := m.session.Active() == session.KindError
	m.keys.Analyze.SetEnabled(!onError)
	m.keys.Submit.SetEnabled(onError && m.focus != focusEditor)
	m.keys.CopyTutor.SetEnabled(onError)
	m.keys.CopyError.SetEnabled(!onError)
	visual := m.session.Active() == session.KindVisualization
	m.keys.Up.SetEnabled(visual)
	m.keys.Down.SetEnabled(visual)
	m.keys.Highlight.SetEnabled(visual)
}

func (m *Model) anyLoading() bool {
	for _, kind := range session.Kinds {
		if m.session.Loading(kind) {
			return true
		}
	}
	return false
}

// steps returns the number of selectable steps on the visualization panel
func (m *Model) steps() int {
	if m.session.Active() != session.KindVisualization {
		return 0
	}
	res := m.session.Visualization().Result()
	if res == nil || !res.Success {
		return 0
	}
	return len(res.Steps)
}

// refresh re-renders the active panel into the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(m.panelBody())
}
