package session

import (
	"context"

	"github.com/yildizm/pyscope/internal/api"
)

// Job is a single in-flight backend request for one command
type Job struct {
	Command Command

	ctx    context.Context
	cancel context.CancelFunc
	call   call
}

// Outcome is the result of running a Job. Exactly one of the response
// fields is set on success; Err is set on transport failure.
type Outcome struct {
	Command Command

	Analysis      *api.AnalyzeResponse
	Visualization *api.VisualizeResponse
	ErrorAnalysis *api.ErrorAnalyzeResponse

	Err error

	// Canceled is true when the job's token was canceled before it returned
	Canceled bool
}

// Run performs the backend call. It blocks and is meant to run off the UI loop.
func (j *Job) Run(b Backend) Outcome {
	out := Outcome{Command: j.Command}
	out.Err = j.call(j.ctx, b, &out)
	out.Canceled = j.ctx.Err() != nil || api.IsCanceled(out.Err)
	return out
}

// Cancel cancels the job's token
func (j *Job) Cancel() {
	j.cancel()
}

// Context returns the job's cancellation token
func (j *Job) Context() context.Context {
	return j.ctx
}
