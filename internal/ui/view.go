package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/pyscope/internal/emoji"
	"github.com/yildizm/pyscope/internal/render"
	"github.com/yildizm/pyscope/internal/session"
)

// Below this width the editor is stacked above the panel
const sideBySideMinWidth = 100

// errorFormHeight is the label, the 3-line input and the submit button
const errorFormHeight = 5

// layout holds the inner sizes of the editor and panel panes
type layout struct {
	stacked bool
	editorW int
	editorH int
	panelW  int
	panelH  int
}

// resize recomputes pane sizes for the current window
func (m *Model) resize() {
	if !m.ready {
		return
	}

	frameX, frameY := m.styles.Pane.GetFrameSize()
	header := 2
	footer := 1 + lipgloss.Height(m.help.View(m.keys))
	bodyH := max(m.height-header-footer, 8)

	var l layout
	if m.width >= sideBySideMinWidth {
		editorOuter := m.width / 2
		l = layout{
			editorW: editorOuter - frameX,
			editorH: bodyH - frameY,
			panelW:  m.width - editorOuter - frameX,
			panelH:  bodyH - frameY,
		}
	} else {
		editorOuter := bodyH * 2 / 5
		l = layout{
			stacked: true,
			editorW: m.width - frameX,
			editorH: editorOuter - frameY,
			panelW:  m.width - frameX,
			panelH:  bodyH - editorOuter - frameY,
		}
	}
	l.editorW = max(l.editorW, 10)
	l.editorH = max(l.editorH, 2)
	l.panelW = max(l.panelW, 10)
	l.panelH = max(l.panelH, 2)
	m.layout = l

	// one line below the editor is the analyze button
	m.editor.SetWidth(l.editorW)
	m.editor.SetHeight(max(l.editorH-1, 1))
	m.errorInput.SetWidth(l.panelW)

	vpH := l.panelH - 1
	if m.session.Active() == session.KindError {
		vpH -= errorFormHeight
	}
	m.viewport.Width = l.panelW
	m.viewport.Height = max(vpH, 1)
	m.refresh()
}

// View renders the TUI
func (m *Model) View() string {
	if !m.ready {
		return "Initializing pyscope..."
	}
	if m.quitting {
		return ""
	}

	header := m.styles.Title.Render(emoji.Label("rocket", "pyscope")) +
		m.styles.Muted.Render(" Python学習アシスタント")

	editor := m.paneStyle(m.focus == focusEditor).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.editor.View(), m.analyzeButton()),
	)
	panel := m.paneStyle(m.focus != focusEditor).Render(m.panelView())

	var body string
	if m.layout.stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, editor, panel)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, editor, panel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		m.statusLine(),
		m.help.View(m.keys),
	)
}

func (m *Model) paneStyle(focused bool) lipgloss.Style {
	if focused {
		return m.styles.PaneFocused
	}
	return m.styles.Pane
}

func (m *Model) panelView() string {
	parts := []string{m.renderTabs()}
	if m.session.Active() == session.KindError {
		parts = append(parts,
			m.styles.Label.Render(emoji.Label("inbox", "エラーメッセージを入力")),
			m.errorInput.View(),
			m.submitButton(),
		)
	}
	parts = append(parts, m.viewport.View())

	return lipgloss.NewStyle().Width(m.layout.panelW).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(session.Kinds))
	for _, kind := range session.Kinds {
		label := tabLabel(kind)
		if m.session.Loading(kind) {
			label += " " + m.spinner.View()
		}
		style := m.styles.Tab
		if kind == m.session.Active() {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tabLabel(kind session.Kind) string {
	switch kind {
	case session.KindVisualization:
		return emoji.Label("visualize", "ビジュアルで見る")
	case session.KindError:
		return emoji.Label("alert", "エラーを解析する")
	default:
		return emoji.Label("analyze", "コードを解析する")
	}
}

func (m *Model) analyzeButton() string {
	active := m.session.Active()
	if active != session.KindError && m.session.Loading(active) {
		return m.styles.Label.Render(m.spinner.View() + " " + loadingText(active))
	}
	label := emoji.Label("analyze", "解析する") + " (ctrl+r)"
	if !m.session.AnalyzeEnabled() {
		return m.styles.Disabled.Render(label)
	}
	return m.styles.Label.Render(label)
}

func (m *Model) submitButton() string {
	if m.session.Loading(session.KindError) {
		return m.styles.Label.Render(m.spinner.View() + " " + render.AnalyzingText)
	}
	label := emoji.Label("analyze", "エラーを解析") + " (ctrl+e)"
	if !m.session.SubmitEnabled() {
		return m.styles.Disabled.Render(label)
	}
	return m.styles.Label.Render(label)
}

func (m *Model) statusLine() string {
	if m.toast != nil {
		if m.toast.level == session.NoticeError {
			return m.styles.ToastError.Render(emoji.Label("error", m.toast.text))
		}
		return m.styles.ToastInfo.Render(emoji.Label("success", m.toast.text))
	}

	var where string
	switch m.focus {
	case focusErrorInput:
		where = "エラー入力"
	case focusPanel:
		where = "パネル"
	default:
		where = "エディタ"
	}
	return m.styles.Muted.Render("フォーカス: " + where)
}

func loadingText(kind session.Kind) string {
	if kind == session.KindVisualization {
		return render.VisualizingText
	}
	return render.AnalyzingText
}

// panelBody renders the active panel's current view state
func (m *Model) panelBody() string {
	kind := m.session.Active()

	switch m.session.View(kind) {
	case session.ViewLoading:
		return m.spinner.View() + " " + loadingText(kind)
	case session.ViewEmpty:
		if kind == session.KindError {
			return ""
		}
		return m.styles.Muted.Render(render.EmptyText)
	}

	var (
		out []byte
		err error
	)
	switch kind {
	case session.KindAnalysis:
		out, err = m.formatter.Analysis(m.session.Analysis().Result())
	case session.KindVisualization:
		panel := m.session.Visualization()
		out, err = m.formatter.Visualization(panel.Result(), panel.Highlight())
	case session.KindError:
		out, err = m.formatter.ErrorAnalysis(m.session.ErrorPanel().Result())
	}
	if err != nil {
		m.log.Error("render %s: %v", kind, err)
		return m.styles.ToastError.Render(err.Error())
	}

	body := strings.TrimRight(string(out), "\n")
	if cursor := m.stepCursor(); cursor != "" {
		body = cursor + "\n\n" + body
	}
	if m.viewport.Width > 0 {
		body = lipgloss.NewStyle().Width(m.viewport.Width).Render(body)
	}
	return body
}

// stepCursor shows which step enter will highlight
func (m *Model) stepCursor() string {
	n := m.steps()
	if n == 0 {
		return ""
	}
	idx := min(m.stepIndex, n-1)
	step := m.session.Visualization().Result().Steps[idx]
	return m.styles.StepCursor.Render(fmt.Sprintf("▸ %d/%d  %s", idx+1, n, render.StepLine(step)))
}
