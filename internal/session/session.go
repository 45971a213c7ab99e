// Package session holds the editor source, the three panel controllers and
// the orchestration between them. It is not safe for concurrent use; the
// TUI drives it from its single update loop and runs Jobs elsewhere.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/yildizm/pyscope/internal/logger"
)

// Options configures a Session
type Options struct {
	// Initial panel; defaults to analysis
	Initial Kind

	// Placeholder is treated as blank source in addition to the default one
	Placeholder string

	// Logger for command traces; nil disables logging
	Logger *logger.Logger
}

// Session is the orchestrator: it owns the source text, the active panel
// selector and the single outstanding command.
type Session struct {
	source string
	active Kind

	analysis      *AnalysisPanel
	visualization *VisualizationPanel
	errorPanel    *ErrorPanel

	nextID  uint64
	pending *Command
	jobs    map[uint64]*Job

	notices    []Notice
	onComplete func(Command)

	ctx    context.Context
	cancel context.CancelFunc
	log    *logger.Logger
	now    func() time.Time
}

// New creates a session with the placeholder as source
func New(opts Options) *Session {
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = Placeholder
	}

	active := opts.Initial
	if active == "" {
		active = KindAnalysis
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		source:        placeholder,
		active:        active,
		analysis:      &AnalysisPanel{placeholder: placeholder},
		visualization: &VisualizationPanel{placeholder: placeholder},
		errorPanel:    &ErrorPanel{},
		jobs:          make(map[uint64]*Job),
		ctx:           ctx,
		cancel:        cancel,
		log:           log.WithComponent("session"),
		now:           time.Now,
	}
}

// Source returns the current source text
func (s *Session) Source() string { return s.source }

// SetSource replaces the source text. Blank source clears the analysis and
// visualization results without contacting the backend, and cancels their
// in-flight jobs so late outcomes are discarded.
func (s *Session) SetSource(code string) {
	s.source = code
	if !s.blankSource() {
		return
	}
	s.analysis.result = nil
	s.visualization.result = nil

	for id, job := range s.jobs {
		if !sourceBound(job.Command.Target) {
			continue
		}
		s.log.DebugWithFields("canceling job on blank source", []logger.Field{
			logger.ID(id), logger.F("target", job.Command.Target),
		})
		job.Cancel()
	}
}

func (s *Session) blankSource() bool {
	return isBlank(s.source, s.analysis.placeholder)
}

// sourceBound reports whether a panel's result is derived from the source alone
func sourceBound(kind Kind) bool {
	return kind == KindAnalysis || kind == KindVisualization
}

// Active returns the selected panel
func (s *Session) Active() Kind { return s.active }

// Select changes the active panel and cancels in-flight jobs that target
// any other panel. Their outcomes are discarded when they arrive.
func (s *Session) Select(kind Kind) {
	if kind == s.active {
		return
	}
	s.active = kind

	for id, job := range s.jobs {
		if job.Command.Target == kind {
			continue
		}
		s.log.DebugWithFields("canceling job on panel switch", []logger.Field{
			logger.ID(id), logger.F("target", job.Command.Target),
		})
		job.Cancel()
	}
}

// Analysis returns the analysis panel
func (s *Session) Analysis() *AnalysisPanel { return s.analysis }

// Visualization returns the visualization panel
func (s *Session) Visualization() *VisualizationPanel { return s.visualization }

// ErrorPanel returns the error analysis panel
func (s *Session) ErrorPanel() *ErrorPanel { return s.errorPanel }

// View returns the view state of the given panel
func (s *Session) View(kind Kind) ViewState {
	return s.panel(kind).View()
}

// Loading reports whether the given panel is loading
func (s *Session) Loading(kind Kind) bool {
	return s.panel(kind).Loading()
}

// Pending returns the outstanding command, if any
func (s *Session) Pending() (Command, bool) {
	if s.pending == nil {
		return Command{}, false
	}
	return *s.pending, true
}

// AnalyzeEnabled reports whether the shared Analyze action is available
func (s *Session) AnalyzeEnabled() bool {
	return s.active != KindError && s.pending == nil
}

// SubmitEnabled reports whether the error panel's own button is available
func (s *Session) SubmitEnabled() bool {
	return !s.errorPanel.Loading() && s.pending == nil
}

// Analyze issues a command to the active panel
func (s *Session) Analyze() (Command, bool) {
	if !s.AnalyzeEnabled() {
		return Command{}, false
	}
	return s.issue(s.active, OriginAnalyzeButton), true
}

// AnalyzeFrom issues a command to the active panel on behalf of origin
func (s *Session) AnalyzeFrom(origin Origin) (Command, bool) {
	if !s.AnalyzeEnabled() {
		return Command{}, false
	}
	return s.issue(s.active, origin), true
}

// SubmitError issues a command to the error panel
func (s *Session) SubmitError() (Command, bool) {
	if !s.SubmitEnabled() {
		return Command{}, false
	}
	return s.issue(KindError, OriginErrorButton), true
}

func (s *Session) issue(target Kind, origin Origin) Command {
	s.nextID++
	cmd := Command{ID: s.nextID, Target: target, Origin: origin}
	s.pending = &cmd
	s.log.DebugWithFields("command issued", []logger.Field{
		logger.ID(cmd.ID), logger.F("target", target), logger.F("origin", origin),
	})
	return cmd
}

// Dispatch hands cmd to its target panel. When the panel's input guard
// fails the command completes immediately and no job is returned.
func (s *Session) Dispatch(cmd Command) (*Job, bool) {
	if s.pending == nil || s.pending.ID != cmd.ID {
		return nil, false
	}

	p := s.panel(cmd.Target)
	if p.Loading() {
		s.complete(cmd)
		return nil, false
	}

	if !p.ready(s.source) {
		s.log.DebugWithFields("input guard skipped command", []logger.Field{
			logger.ID(cmd.ID), logger.F("target", cmd.Target),
		})
		p.skip()
		s.complete(cmd)
		return nil, false
	}

	ctx, cancel := context.WithCancel(s.ctx)
	job := &Job{
		Command: cmd,
		ctx:     ctx,
		cancel:  cancel,
		call:    p.begin(cmd.ID, s.source),
	}
	s.jobs[cmd.ID] = job
	return job, true
}

// Complete applies the outcome of a job. Stale outcomes are discarded and
// outcomes for already completed commands are ignored.
func (s *Session) Complete(o Outcome) {
	cmd := o.Command
	if s.pending == nil || s.pending.ID != cmd.ID {
		return
	}

	if job, ok := s.jobs[cmd.ID]; ok {
		job.Cancel()
		delete(s.jobs, cmd.ID)
	}

	p := s.panel(cmd.Target)
	switch {
	case o.Canceled || p.inflight() != cmd.ID || (sourceBound(cmd.Target) && s.blankSource()):
		s.log.DebugWithFields("discarding stale outcome", []logger.Field{logger.ID(cmd.ID), logger.F("target", cmd.Target)})
	case o.Err != nil:
		s.log.Warn("%s request failed: %v", cmd.Target, o.Err)
		s.notices = append(s.notices, Notice{
			Level:   NoticeError,
			Panel:   cmd.Target,
			Message: p.failureNotice(),
			Cause:   o.Err,
			At:      s.now(),
		})
	default:
		p.apply(o)
	}

	if p.inflight() == cmd.ID {
		p.finish()
	}
	s.complete(cmd)
}

func (s *Session) complete(cmd Command) {
	s.pending = nil
	s.log.DebugWithFields("command completed", []logger.Field{logger.ID(cmd.ID), logger.F("target", cmd.Target)})
	if s.onComplete != nil {
		s.onComplete(cmd)
	}
}

// OnComplete registers a hook fired once per completed command
func (s *Session) OnComplete(fn func(Command)) {
	s.onComplete = fn
}

// Notices drains queued notices
func (s *Session) Notices() []Notice {
	out := s.notices
	s.notices = nil
	return out
}

// Notify queues an informational notice
func (s *Session) Notify(kind Kind, format string, args ...interface{}) {
	s.notices = append(s.notices, Notice{
		Level:   NoticeInfo,
		Panel:   kind,
		Message: fmt.Sprintf(format, args...),
		At:      s.now(),
	})
}

// SetErrorMessage replaces the error panel's message text
func (s *Session) SetErrorMessage(msg string) {
	s.errorPanel.message = msg
}

// SelectStep highlights the line of the given step. The result is only
// re-rendered; no request is made.
func (s *Session) SelectStep(index int) bool {
	res := s.visualization.result
	if res == nil || !res.Success || index < 0 || index >= len(res.Steps) {
		return false
	}
	line := res.Steps[index].Line()
	s.visualization.highlight = &line
	return true
}

// ClearHighlight removes the highlighted line
func (s *Session) ClearHighlight() {
	s.visualization.highlight = nil
}

// Close cancels every in-flight job
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) panel(kind Kind) panel {
	switch kind {
	case KindVisualization:
		return s.visualization
	case KindError:
		return s.errorPanel
	default:
		return s.analysis
	}
}
