package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/logging"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

type JobEventType string

const (
	JobEventStatus  JobEventType = "status"
	JobEventOutcome JobEventType = "outcome"
	JobEventResult  JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For per-descriptor completion
	Index     int               `json:"index"`
	Outcome   *dispatch.Outcome `json:"outcome,omitempty"`
	Processed int               `json:"processed,omitempty"`
	Total     int               `json:"total,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type Job struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject,omitempty"`
	Requested int           `json:"requested"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	// Populated once the batch completes.
	Outcomes []dispatch.Outcome `json:"outcomes,omitempty"`
}

// Orchestrator owns the shared webclient, the dispatcher and the in-memory
// batch job table. Jobs are never persisted.
type Orchestrator struct {
	cfg    *Config
	wc     webclient.WebClient
	logger logging.Logger

	// dispMu guards the dispatcher so policy can be hot-reloaded while
	// batches run.
	dispMu     sync.RWMutex
	dispatcher *dispatch.Dispatcher

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator ties together config, webclient and logger.
func NewOrchestrator(cfg *Config, wc webclient.WebClient, logger logging.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	d, err := dispatch.New(cfg.DispatchCfg, wc, logger)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:        cfg,
		wc:         wc,
		logger:     logger,
		dispatcher: d,
		jobs:       make(map[string]*Job),
		jobCancels: make(map[string]context.CancelFunc),
	}, nil
}

// SetDispatchPolicy swaps the dispatcher configuration. Running batches keep
// the policy they started with.
func (o *Orchestrator) SetDispatchPolicy(cfg dispatch.Config) error {
	d, err := dispatch.New(cfg, o.wc, o.logger)
	if err != nil {
		return err
	}

	o.dispMu.Lock()
	o.cfg.DispatchCfg = cfg
	o.dispatcher = d
	o.dispMu.Unlock()

	if o.logger != nil {
		o.logger.Info("dispatch policy updated",
			logging.Field{Key: "max_concurrency", Value: cfg.MaxConcurrency},
			logging.Field{Key: "default_timeout", Value: cfg.DefaultTimeout.String()})
	}
	return nil
}

func (o *Orchestrator) currentDispatcher() *dispatch.Dispatcher {
	o.dispMu.RLock()
	defer o.dispMu.RUnlock()
	return o.dispatcher
}

// MockTargets returns the safe demo batch used by mock mode, pointed at the
// configured demoserver.
func (o *Orchestrator) MockTargets(subject string) []dispatch.Descriptor {
	if subject == "" {
		subject = "unknown"
	}
	base := strings.TrimRight(o.cfg.MockTargetBase, "/")
	return []dispatch.Descriptor{
		{Method: dispatch.MethodPost, URL: base + "/echo", Body: "subject=" + subject},
		{Method: dispatch.MethodGet, URL: base + "/ok"},
		{Method: dispatch.MethodGet, URL: base + "/status/204"},
	}
}

// DispatchSync runs a batch and blocks until every outcome is in. A zero
// overall timeout falls back to the configured batch timeout.
func (o *Orchestrator) DispatchSync(ctx context.Context, descs []dispatch.Descriptor, overall time.Duration) ([]dispatch.Outcome, error) {
	if overall <= 0 {
		overall = o.cfg.BatchTimeout
	}
	return o.currentDispatcher().Dispatch(ctx, descs, overall)
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setJobStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
	}
	o.jobsMu.Unlock()
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: status,
		Error:  errMsg,
	})
}

// StartDispatchJob validates the batch, registers a job and runs the dispatch
// in the background. Validation errors fail the call before anything is sent.
func (o *Orchestrator) StartDispatchJob(ctx context.Context, subject string, descs []dispatch.Descriptor, overall time.Duration) (*Job, error) {
	if err := dispatch.ValidateAll(descs); err != nil {
		return nil, err
	}
	if overall <= 0 {
		overall = o.cfg.BatchTimeout
	}

	bufSize := o.cfg.JobEventBuffer
	if bufSize <= 0 {
		bufSize = 16
	}

	jobID := uuid.New().String()
	now := time.Now().UTC()

	job := &Job{
		ID:        jobID,
		Subject:   subject,
		Requested: len(descs),
		Status:    JobPending,
		StartedAt: now,
		Events:    make(chan JobEvent, bufSize),
	}

	o.jobsMu.Lock()
	o.jobs[jobID] = job
	o.jobsMu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	o.jobsMu.Lock()
	o.jobCancels[jobID] = cancel
	o.jobsMu.Unlock()

	// Emit initial pending event
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: JobPending,
	})

	go func() {
		defer func() {
			o.jobsMu.Lock()
			if j, ok := o.jobs[jobID]; ok {
				j.EndedAt = time.Now().UTC()
			}
			delete(o.jobCancels, jobID)
			j := o.jobs[jobID]
			o.jobsMu.Unlock()

			// Close events channel so websocket loops can terminate cleanly
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		o.setJobStatus(jobID, JobRunning, "")

		var processed int32
		progress := func(i int, out dispatch.Outcome) {
			oc := out
			o.emitJobEvent(jobID, JobEvent{
				JobID:     jobID,
				Type:      JobEventOutcome,
				Index:     i,
				Outcome:   &oc,
				Processed: int(atomic.AddInt32(&processed, 1)),
				Total:     len(descs),
			})
		}

		outcomes, err := o.currentDispatcher().DispatchWithProgress(jobCtx, descs, overall, progress)
		if err != nil {
			o.setJobStatus(jobID, JobFailed, err.Error())
			return
		}

		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Outcomes = outcomes
		}
		o.jobsMu.Unlock()

		select {
		case <-jobCtx.Done():
			o.setJobStatus(jobID, JobCanceled, jobCtx.Err().Error())
		default:
			o.jobsMu.Lock()
			if j, ok := o.jobs[jobID]; ok {
				j.Status = JobDone
			}
			o.jobsMu.Unlock()
			o.emitJobEvent(jobID, JobEvent{
				JobID:  jobID,
				Type:   JobEventResult,
				Status: JobDone,
			})
		}
	}()

	return job, nil
}

// CancelJob abandons any still-pending descriptors of a running job.
// Descriptors that already completed keep their real outcome.
func (o *Orchestrator) CancelJob(jobID string) {
	o.jobsMu.Lock()
	cancel := o.jobCancels[jobID]
	o.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	return j
}

func (o *Orchestrator) ListJobs() []*Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	out := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, j)
	}
	return out
}

// Close cancels running jobs and releases the shared webclient.
func (o *Orchestrator) Close() {
	o.jobsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.jobCancels))
	for _, c := range o.jobCancels {
		cancels = append(cancels, c)
	}
	o.jobsMu.Unlock()

	for _, c := range cancels {
		c()
	}
	if o.wc != nil {
		_ = o.wc.Close()
	}
}
