package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/session"
	"github.com/yildizm/pyscope/internal/watch"
)

type stubBackend struct {
	mu    sync.Mutex
	calls int

	analyze     *api.AnalyzeResponse
	visualize   *api.VisualizeResponse
	errAnalysis *api.ErrorAnalyzeResponse
	err         error
	block       bool

	lastVisReq   api.VisualizeRequest
	lastErrorReq api.ErrorAnalyzeRequest
}

func (s *stubBackend) enter(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()
	if block {
		<-ctx.Done()
		return &api.TransportError{Type: api.ErrTypeCanceled, Message: "request canceled", Cause: ctx.Err()}
	}
	return s.err
}

func (s *stubBackend) AnalyzeCode(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error) {
	if err := s.enter(ctx); err != nil {
		return nil, err
	}
	return s.analyze, nil
}

func (s *stubBackend) VisualizeCode(ctx context.Context, req api.VisualizeRequest) (*api.VisualizeResponse, error) {
	s.mu.Lock()
	s.lastVisReq = req
	s.mu.Unlock()
	if err := s.enter(ctx); err != nil {
		return nil, err
	}
	return s.visualize, nil
}

func (s *stubBackend) AnalyzeError(ctx context.Context, req api.ErrorAnalyzeRequest) (*api.ErrorAnalyzeResponse, error) {
	s.mu.Lock()
	s.lastErrorReq = req
	s.mu.Unlock()
	if err := s.enter(ctx); err != nil {
		return nil, err
	}
	return s.errAnalysis, nil
}

func (s *stubBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

var (
	keyAnalyze = tea.KeyMsg{Type: tea.KeyCtrlR}
	keySubmit  = tea.KeyMsg{Type: tea.KeyCtrlE}
	keyTab     = tea.KeyMsg{Type: tea.KeyTab}
	keyFocus   = tea.KeyMsg{Type: tea.KeyCtrlO}
	keyCopy    = tea.KeyMsg{Type: tea.KeyCtrlY}
	keyTutor   = tea.KeyMsg{Type: tea.KeyCtrlP}
	keyDown    = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter   = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc     = tea.KeyMsg{Type: tea.KeyEsc}
)

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type testModel struct {
	*Model
	copied []string
}

func newTestModel(t *testing.T, backend *stubBackend, configure ...func(*Options)) *testModel {
	t.Helper()
	tm := &testModel{}
	opts := Options{
		Backend:       backend,
		Source:        "x = 1\n",
		ToastDuration: 5 * time.Millisecond,
		Clipboard: func(s string) error {
			tm.copied = append(tm.copied, s)
			return nil
		},
	}
	for _, fn := range configure {
		fn(&opts)
	}
	tm.Model = New(opts)
	tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return tm
}

func (tm *testModel) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := tm.Update(msg)
	return cmd
}

// run executes cmd and feeds job outcomes back into the model
func (tm *testModel) run(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if o, ok := msg.(outcomeMsg); ok {
			tm.Update(o)
		}
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestAnalyze_ShowsResult(t *testing.T) {
	backend := &stubBackend{analyze: &api.AnalyzeResponse{
		Success: true,
		Summary: &api.Summary{QualityScore: intPtr(80)},
	}}
	m := newTestModel(t, backend)

	cmd := m.press(keyAnalyze)
	if cmd == nil {
		t.Fatal("Expected a job command")
	}
	if !m.session.Loading(session.KindAnalysis) {
		t.Error("Expected analysis panel to be loading")
	}
	if !strings.Contains(m.panelBody(), "解析中...") {
		t.Errorf("Expected loading text, got %q", m.panelBody())
	}

	m.run(cmd)

	if m.session.Loading(session.KindAnalysis) {
		t.Error("Expected loading to end")
	}
	if m.session.Analysis().Result() == nil {
		t.Fatal("Expected analysis result")
	}
	if !strings.Contains(m.panelBody(), "80/100") {
		t.Errorf("Expected quality score in panel, got %q", m.panelBody())
	}
	if _, pending := m.session.Pending(); pending {
		t.Error("Expected no pending command")
	}
}

func TestAnalyze_PlaceholderSkipped(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(t, backend, func(o *Options) { o.Source = "" })

	if m.editor.Value() != session.Placeholder {
		t.Errorf("Expected placeholder in editor, got %q", m.editor.Value())
	}

	if cmd := m.press(keyAnalyze); cmd != nil {
		t.Error("Expected no job for placeholder source")
	}
	if backend.callCount() != 0 {
		t.Errorf("Expected 0 backend calls, got %d", backend.callCount())
	}
	if !strings.Contains(m.panelBody(), "コードを入力して解析ボタンを押してください") {
		t.Errorf("Expected empty state, got %q", m.panelBody())
	}
}

func TestAnalyze_DisabledOnErrorTab(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(t, backend)

	m.press(altKey('3'))
	if m.session.Active() != session.KindError {
		t.Fatalf("Expected error tab, got %s", m.session.Active())
	}

	m.press(keyAnalyze)
	if _, pending := m.session.Pending(); pending {
		t.Error("Expected analyze to be ignored on the error tab")
	}
	if backend.callCount() != 0 {
		t.Errorf("Expected 0 backend calls, got %d", backend.callCount())
	}
}

func TestEditorChange_UpdatesSource(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	m.press(typed("y"))

	if !strings.Contains(m.session.Source(), "y") {
		t.Errorf("Expected typed text in source, got %q", m.session.Source())
	}
}

func TestTransportFailure_ShowsToast(t *testing.T) {
	backend := &stubBackend{
		err: &api.TransportError{Type: api.ErrTypeNetwork, Message: "connection refused"},
	}
	m := newTestModel(t, backend)

	m.run(m.press(keyAnalyze))

	if m.toast == nil {
		t.Fatal("Expected a toast")
	}
	if m.toast.level != session.NoticeError {
		t.Errorf("Expected error toast, got %s", m.toast.level)
	}
	if m.toast.text != session.AnalysisFailedNotice {
		t.Errorf("Expected %q, got %q", session.AnalysisFailedNotice, m.toast.text)
	}
	if !strings.Contains(m.statusLine(), session.AnalysisFailedNotice) {
		t.Errorf("Expected toast in status line, got %q", m.statusLine())
	}
	if m.session.Analysis().Result() != nil {
		t.Error("Expected no result after transport failure")
	}
}

func TestTabSwitch_DiscardsStaleOutcome(t *testing.T) {
	backend := &stubBackend{block: true, analyze: &api.AnalyzeResponse{Success: true}}
	m := newTestModel(t, backend)

	cmd := m.press(keyAnalyze)
	m.press(keyTab)
	if m.session.Active() != session.KindVisualization {
		t.Fatalf("Expected visualization tab, got %s", m.session.Active())
	}

	m.run(cmd)

	if m.session.Analysis().Result() != nil {
		t.Error("Expected stale outcome to be discarded")
	}
	if m.session.Loading(session.KindAnalysis) {
		t.Error("Expected loading to end")
	}
	if m.toast != nil {
		t.Errorf("Expected no toast for a discarded outcome, got %q", m.toast.text)
	}
	if _, pending := m.session.Pending(); pending {
		t.Error("Expected command to be completed")
	}
}

func TestEditorBlanked_DiscardsInflightOutcome(t *testing.T) {
	backend := &stubBackend{block: true, analyze: &api.AnalyzeResponse{Success: true}}
	m := newTestModel(t, backend)

	cmd := m.press(keyAnalyze)
	if !m.session.Loading(session.KindAnalysis) {
		t.Fatal("Expected analysis to be loading")
	}

	m.editor.SetValue("")
	m.press(typed(" "))
	if !session.IsBlank(m.session.Source()) {
		t.Fatalf("Expected blank source, got %q", m.session.Source())
	}

	m.run(cmd)

	if m.session.Analysis().Result() != nil {
		t.Error("Expected no analysis result under a blank editor")
	}
	if m.session.View(session.KindAnalysis) != session.ViewEmpty {
		t.Errorf("Expected empty view, got %v", m.session.View(session.KindAnalysis))
	}
	if m.session.Loading(session.KindAnalysis) {
		t.Error("Expected loading to end")
	}
	if m.toast != nil {
		t.Errorf("Expected no toast for a discarded outcome, got %q", m.toast.text)
	}
	if _, pending := m.session.Pending(); pending {
		t.Error("Expected command to be completed")
	}
}

func TestErrorSubmit_EditorFocusKeepsCtrlE(t *testing.T) {
	backend := &stubBackend{errAnalysis: &api.ErrorAnalyzeResponse{Success: true, ErrorType: "NameError"}}
	m := newTestModel(t, backend)

	m.press(altKey('3'))
	m.session.SetErrorMessage("NameError: name 'y' is not defined")
	if !m.session.SubmitEnabled() {
		t.Fatal("Expected submit to be enabled with a message")
	}

	if m.focus != focusEditor {
		t.Fatalf("Expected editor focus, got %d", m.focus)
	}
	if m.keys.Submit.Enabled() {
		t.Error("Expected submit key disabled while the editor has focus")
	}
	m.run(m.press(keySubmit))
	if backend.callCount() != 0 {
		t.Errorf("Expected no backend call from the editor, got %d", backend.callCount())
	}
	if m.session.Source() != "x = 1\n" {
		t.Errorf("Expected ctrl+e to leave the source unchanged, got %q", m.session.Source())
	}

	m.press(keyFocus)
	if !m.keys.Submit.Enabled() {
		t.Fatal("Expected submit key enabled on the error input")
	}
	m.run(m.press(keySubmit))
	if backend.callCount() != 1 {
		t.Errorf("Expected 1 backend call, got %d", backend.callCount())
	}
	if m.session.ErrorPanel().Result() == nil {
		t.Error("Expected error analysis result")
	}
}

func TestErrorSubmit(t *testing.T) {
	backend := &stubBackend{errAnalysis: &api.ErrorAnalyzeResponse{
		Success:           true,
		ErrorType:         "NameError",
		LineNumber:        2,
		SimpleExplanation: "変数が定義されていません",
	}}
	m := newTestModel(t, backend)

	m.press(altKey('3'))

	m.press(keyFocus)
	if m.focus != focusErrorInput {
		t.Fatalf("Expected error input focus, got %d", m.focus)
	}

	// empty message: guard skips the request
	if cmd := m.press(keySubmit); cmd != nil {
		t.Error("Expected no job without an error message")
	}

	m.press(typed("NameError: name 'y' is not defined"))

	m.run(m.press(keySubmit))

	if backend.lastErrorReq.ErrorMessage != "NameError: name 'y' is not defined" {
		t.Errorf("Expected error message in request, got %q", backend.lastErrorReq.ErrorMessage)
	}
	if backend.lastErrorReq.Code != "x = 1\n" {
		t.Errorf("Expected source in request, got %q", backend.lastErrorReq.Code)
	}
	if m.session.ErrorPanel().Result() == nil {
		t.Fatal("Expected error analysis result")
	}
	if !strings.Contains(m.panelBody(), "NameError") {
		t.Errorf("Expected error type in panel, got %q", m.panelBody())
	}
}

func TestVisualization_StepHighlight(t *testing.T) {
	backend := &stubBackend{visualize: &api.VisualizeResponse{
		Success: true,
		Steps: []api.SimulatedStep{
			{LineNumber: 1, Action: "ASSIGN", Description: "x = 1"},
			{LineNumber: 2, Action: "PRINT", Description: "print(x)"},
		},
	}}
	m := newTestModel(t, backend)

	m.press(altKey('2'))
	m.run(m.press(keyAnalyze))

	if backend.lastVisReq.ShowFlow == nil || !*backend.lastVisReq.ShowFlow {
		t.Error("Expected show_flow=true in request")
	}
	if m.session.Visualization().Result() == nil {
		t.Fatal("Expected visualization result")
	}

	m.press(keyFocus)
	if m.focus != focusPanel {
		t.Fatalf("Expected panel focus, got %d", m.focus)
	}
	m.press(keyDown)
	m.press(keyDown)
	if m.stepIndex != 1 {
		t.Errorf("Expected cursor clamped at 1, got %d", m.stepIndex)
	}

	m.press(keyEnter)
	hl := m.session.Visualization().Highlight()
	if hl == nil || *hl != 2 {
		t.Fatalf("Expected highlight on line 2, got %v", hl)
	}
	if backend.callCount() != 1 {
		t.Errorf("Expected highlighting to make no request, got %d calls", backend.callCount())
	}
	if !strings.Contains(m.panelBody(), "▶") {
		t.Errorf("Expected highlighted step marker, got %q", m.panelBody())
	}

	m.press(keyEsc)
	if m.session.Visualization().Highlight() != nil {
		t.Error("Expected highlight cleared")
	}
}

func TestCopyErrorText(t *testing.T) {
	backend := &stubBackend{analyze: &api.AnalyzeResponse{
		Success: false,
		Message: strPtr("invalid syntax"),
		Line:    intPtr(1),
	}}
	m := newTestModel(t, backend)

	m.press(keyCopy)
	if len(m.copied) != 0 {
		t.Error("Expected nothing copied without a failure")
	}

	m.run(m.press(keyAnalyze))
	m.press(keyCopy)

	if len(m.copied) != 1 || m.copied[0] != "invalid syntax" {
		t.Errorf("Expected failure message copied, got %v", m.copied)
	}
	if m.toast == nil || m.toast.level != session.NoticeInfo {
		t.Error("Expected info toast after copy")
	}
}

func TestCopyErrorText_ClipboardFailure(t *testing.T) {
	backend := &stubBackend{analyze: &api.AnalyzeResponse{Success: false, Error: strPtr("bad")}}
	m := newTestModel(t, backend, func(o *Options) {
		o.Clipboard = func(string) error { return errors.New("no clipboard") }
	})

	m.run(m.press(keyAnalyze))
	m.press(keyCopy)

	if m.toast == nil || m.toast.level != session.NoticeError {
		t.Error("Expected error toast when the clipboard fails")
	}
}

func TestCopyTutorPrompt(t *testing.T) {
	backend := &stubBackend{errAnalysis: &api.ErrorAnalyzeResponse{
		Success:           true,
		ErrorType:         "ZeroDivisionError",
		SimpleExplanation: "0で割っています",
	}}
	m := newTestModel(t, backend)
	m.press(altKey('3'))

	m.press(keyTutor)
	if len(m.copied) != 0 {
		t.Error("Expected nothing copied before analysis")
	}

	m.press(keyFocus)
	m.press(typed("ZeroDivisionError: division by zero"))
	m.run(m.press(keySubmit))
	m.press(keyTutor)

	if len(m.copied) != 1 {
		t.Fatalf("Expected prompt copied, got %d copies", len(m.copied))
	}
	if !strings.Contains(m.copied[0], "ZeroDivisionError") {
		t.Errorf("Expected error in prompt, got %q", m.copied[0])
	}
}

func TestReload_AutoAnalyze(t *testing.T) {
	reloads := make(chan watch.Event)
	backend := &stubBackend{analyze: &api.AnalyzeResponse{Success: true}}
	m := newTestModel(t, backend, func(o *Options) {
		o.Reloads = reloads
		o.AutoAnalyze = true
	})

	_, cmd := m.Update(sourceReloadedMsg{event: watch.Event{Path: "/tmp/main.py", Content: "print(1)\n"}})

	if m.editor.Value() != "print(1)\n" {
		t.Errorf("Expected editor reloaded, got %q", m.editor.Value())
	}
	if m.session.Source() != "print(1)\n" {
		t.Errorf("Expected source reloaded, got %q", m.session.Source())
	}
	if m.toast == nil || !strings.Contains(m.toast.text, "main.py") {
		t.Error("Expected reload toast")
	}

	// unblock waitForReload
	close(reloads)
	m.run(cmd)

	if backend.callCount() != 1 {
		t.Errorf("Expected 1 analysis after reload, got %d", backend.callCount())
	}
	if m.session.Analysis().Result() == nil {
		t.Error("Expected analysis result after reload")
	}
}

func TestReload_Error(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	m.Update(sourceReloadedMsg{event: watch.Event{Path: "/tmp/main.py", Err: errors.New("gone")}})

	if m.toast == nil || m.toast.level != session.NoticeError {
		t.Error("Expected error toast")
	}
	if m.session.Source() != "x = 1\n" {
		t.Errorf("Expected source unchanged, got %q", m.session.Source())
	}
}

func TestToastExpiry(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	m.setToast(session.NoticeInfo, "first")
	stale := m.toastSeq
	m.setToast(session.NoticeInfo, "second")

	m.Update(clearToastMsg{seq: stale})
	if m.toast == nil || m.toast.text != "second" {
		t.Error("Expected stale expiry to keep the newer toast")
	}

	m.Update(clearToastMsg{seq: m.toastSeq})
	if m.toast != nil {
		t.Error("Expected toast cleared")
	}
}

func TestLayout(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	if m.layout.stacked {
		t.Error("Expected side-by-side layout at 120 columns")
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if !m.layout.stacked {
		t.Error("Expected stacked layout at 80 columns")
	}

	view := m.View()
	for _, label := range []string{"コードを解析する", "ビジュアルで見る", "エラーを解析する"} {
		if !strings.Contains(view, label) {
			t.Errorf("Expected tab %q in view", label)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	cmd := m.press(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
