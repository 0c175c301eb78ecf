// Package model defines the run-history model of the batch: job and step executions,
// their statuses and the execution context the steps report counts through.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// JobStatus represents the state of a job or step execution.
type JobStatus string

const (
	BatchStatusStarting  JobStatus = "STARTING"
	BatchStatusStarted   JobStatus = "STARTED"
	BatchStatusCompleted JobStatus = "COMPLETED"
	BatchStatusFailed    JobStatus = "FAILED"
	BatchStatusStopped   JobStatus = "STOPPED"
)

// String returns the string representation of the JobStatus.
func (s JobStatus) String() string {
	return string(s)
}

// IsFinished checks if the JobStatus represents a finished state.
func (s JobStatus) IsFinished() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusFailed, BatchStatusStopped:
		return true
	default:
		return false
	}
}

// ExitStatus represents the detailed status upon job/step completion.
type ExitStatus string

const (
	ExitStatusUnknown   ExitStatus = "UNKNOWN"
	ExitStatusCompleted ExitStatus = "COMPLETED"
	ExitStatusFailed    ExitStatus = "FAILED"
	ExitStatusStopped   ExitStatus = "STOPPED"
	ExitStatusNoOp      ExitStatus = "NO_OP"
)

// String returns the string representation of the ExitStatus.
func (s ExitStatus) String() string {
	return string(s)
}

// ExecutionContext is a key-value store shared between a step and its tasklet.
// It is persisted as a JSON column.
type ExecutionContext map[string]interface{}

// NewExecutionContext creates an empty ExecutionContext.
func NewExecutionContext() ExecutionContext {
	return make(ExecutionContext)
}

// Put stores value under key.
func (ec ExecutionContext) Put(key string, value interface{}) {
	ec[key] = value
}

// Get returns the value stored under key.
func (ec ExecutionContext) Get(key string) (interface{}, bool) {
	v, ok := ec[key]
	return v, ok
}

// GetString returns the string stored under key.
func (ec ExecutionContext) GetString(key string) (string, bool) {
	v, ok := ec[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns the integer stored under key. JSON round trips turn ints into
// float64, so both are accepted.
func (ec ExecutionContext) GetInt(key string) (int, bool) {
	v, ok := ec[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Copy returns a shallow copy of the ExecutionContext.
func (ec ExecutionContext) Copy() ExecutionContext {
	out := make(ExecutionContext, len(ec))
	for k, v := range ec {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer.
func (ec ExecutionContext) Value() (driver.Value, error) {
	if ec == nil {
		return "{}", nil
	}
	data, err := json.Marshal(ec)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (ec *ExecutionContext) Scan(value interface{}) error {
	b, err := scanBytes(value, "ExecutionContext")
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*ec = make(ExecutionContext)
		return nil
	}
	if err := json.Unmarshal(b, ec); err != nil {
		return fmt.Errorf("failed to unmarshal ExecutionContext JSON: %w", err)
	}
	return nil
}

// JobParameters holds the parameters a job was launched with, such as the input object.
type JobParameters map[string]string

// Value implements driver.Valuer.
func (jp JobParameters) Value() (driver.Value, error) {
	if jp == nil {
		return "{}", nil
	}
	data, err := json.Marshal(jp)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (jp *JobParameters) Scan(value interface{}) error {
	b, err := scanBytes(value, "JobParameters")
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*jp = make(JobParameters)
		return nil
	}
	if err := json.Unmarshal(b, jp); err != nil {
		return fmt.Errorf("failed to unmarshal JobParameters JSON: %w", err)
	}
	return nil
}

// FailureList holds a list of error messages.
type FailureList []string

// Value implements driver.Valuer.
func (fl FailureList) Value() (driver.Value, error) {
	if fl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(fl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (fl *FailureList) Scan(value interface{}) error {
	b, err := scanBytes(value, "FailureList")
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*fl = make(FailureList, 0)
		return nil
	}
	if err := json.Unmarshal(b, fl); err != nil {
		return fmt.Errorf("failed to unmarshal FailureList JSON: %w", err)
	}
	return nil
}

func scanBytes(value interface{}, typeName string) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported Scan type for %s: %T", typeName, value)
	}
}

// JobExecution is a single run of a job.
type JobExecution struct {
	ID             string
	JobName        string
	Parameters     JobParameters
	StartTime      time.Time
	EndTime        *time.Time
	Status         JobStatus
	ExitStatus     ExitStatus
	Failures       FailureList
	CreateTime     time.Time
	LastUpdated    time.Time
	StepExecutions []*StepExecution
}

// StepExecution is a single run of a step within a JobExecution.
type StepExecution struct {
	ID               string
	StepName         string
	JobExecution     *JobExecution
	JobExecutionID   string
	StartTime        time.Time
	EndTime          *time.Time
	Status           JobStatus
	ExitStatus       ExitStatus
	Failures         FailureList
	ReadCount        int
	WriteCount       int
	FilterCount      int
	ExecutionContext ExecutionContext
	LastUpdated      time.Time
}

// NewID generates a new unique ID.
func NewID() string {
	return uuid.New().String()
}

// NewJobExecution creates a JobExecution in the STARTING state.
func NewJobExecution(jobName string, params JobParameters) *JobExecution {
	now := time.Now()
	if params == nil {
		params = JobParameters{}
	}
	return &JobExecution{
		ID:          NewID(),
		JobName:     jobName,
		Parameters:  params,
		StartTime:   now,
		Status:      BatchStatusStarting,
		ExitStatus:  ExitStatusUnknown,
		Failures:    make(FailureList, 0),
		CreateTime:  now,
		LastUpdated: now,
	}
}

// NewStepExecution creates a StepExecution in the STARTING state and attaches it to jobExecution.
func NewStepExecution(jobExecution *JobExecution, stepName string) *StepExecution {
	now := time.Now()
	se := &StepExecution{
		ID:               NewID(),
		StepName:         stepName,
		JobExecutionID:   jobExecution.ID,
		JobExecution:     jobExecution,
		StartTime:        now,
		Status:           BatchStatusStarting,
		ExitStatus:       ExitStatusUnknown,
		Failures:         make(FailureList, 0),
		ExecutionContext: NewExecutionContext(),
		LastUpdated:      now,
	}
	jobExecution.StepExecutions = append(jobExecution.StepExecutions, se)
	return se
}

// isValidTransition checks a status transition shared by jobs and steps.
func isValidTransition(current, next JobStatus) bool {
	switch current {
	case BatchStatusStarting:
		return next == BatchStatusStarted || next == BatchStatusFailed || next == BatchStatusStopped
	case BatchStatusStarted:
		return next == BatchStatusCompleted || next == BatchStatusFailed || next == BatchStatusStopped
	default:
		return false
	}
}

// TransitionTo safely transitions the state of JobExecution.
func (je *JobExecution) TransitionTo(newStatus JobStatus) error {
	if !isValidTransition(je.Status, newStatus) {
		return fmt.Errorf("JobExecution (ID: %s): Invalid state transition: %s -> %s", je.ID, je.Status, newStatus)
	}
	je.Status = newStatus
	return nil
}

// MarkAsStarted updates the JobExecution status to STARTED.
func (je *JobExecution) MarkAsStarted() {
	if err := je.TransitionTo(BatchStatusStarted); err != nil {
		logger.Warnf("Could not update JobExecution (ID: %s) status to STARTED: %v", je.ID, err)
		je.Status = BatchStatusStarted
	}
	now := time.Now()
	je.StartTime = now
	je.LastUpdated = now
}

// MarkAsCompleted updates the JobExecution status to COMPLETED.
func (je *JobExecution) MarkAsCompleted() {
	je.finish(BatchStatusCompleted, ExitStatusCompleted)
}

// MarkAsStopped updates the JobExecution status to STOPPED.
func (je *JobExecution) MarkAsStopped() {
	je.finish(BatchStatusStopped, ExitStatusStopped)
}

// MarkAsFailed updates the JobExecution status to FAILED and records err.
func (je *JobExecution) MarkAsFailed(err error) {
	je.finish(BatchStatusFailed, ExitStatusFailed)
	je.AddFailureException(err)
}

func (je *JobExecution) finish(status JobStatus, exit ExitStatus) {
	if err := je.TransitionTo(status); err != nil {
		logger.Warnf("Could not update JobExecution (ID: %s) status to %s: %v", je.ID, status, err)
		je.Status = status
	}
	je.ExitStatus = exit
	now := time.Now()
	je.EndTime = &now
	je.LastUpdated = now
}

// AddFailureException records the message of err, skipping duplicates.
func (je *JobExecution) AddFailureException(err error) {
	if err == nil {
		return
	}
	je.Failures = appendFailure(je.Failures, exception.ExtractErrorMessage(err))
	je.LastUpdated = time.Now()
}

// TransitionTo safely transitions the state of StepExecution.
func (se *StepExecution) TransitionTo(newStatus JobStatus) error {
	if !isValidTransition(se.Status, newStatus) {
		return fmt.Errorf("StepExecution (ID: %s): Invalid state transition: %s -> %s", se.ID, se.Status, newStatus)
	}
	se.Status = newStatus
	return nil
}

// MarkAsStarted updates the StepExecution status to STARTED.
func (se *StepExecution) MarkAsStarted() {
	if err := se.TransitionTo(BatchStatusStarted); err != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to STARTED: %v", se.ID, err)
		se.Status = BatchStatusStarted
	}
	now := time.Now()
	se.StartTime = now
	se.LastUpdated = now
}

// MarkAsCompleted updates the StepExecution status to COMPLETED with the given exit status.
func (se *StepExecution) MarkAsCompleted(exit ExitStatus) {
	if err := se.TransitionTo(BatchStatusCompleted); err != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to COMPLETED: %v", se.ID, err)
		se.Status = BatchStatusCompleted
	}
	if exit == "" {
		exit = ExitStatusCompleted
	}
	se.ExitStatus = exit
	now := time.Now()
	se.EndTime = &now
	se.LastUpdated = now
}

// MarkAsFailed updates the StepExecution status to FAILED and records err.
func (se *StepExecution) MarkAsFailed(err error) {
	if tErr := se.TransitionTo(BatchStatusFailed); tErr != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to FAILED: %v", se.ID, tErr)
		se.Status = BatchStatusFailed
	}
	se.ExitStatus = ExitStatusFailed
	now := time.Now()
	se.EndTime = &now
	se.LastUpdated = now
	if err != nil {
		se.Failures = appendFailure(se.Failures, exception.ExtractErrorMessage(err))
	}
}

func appendFailure(list FailureList, msg string) FailureList {
	for _, existing := range list {
		if existing == msg {
			return list
		}
	}
	return append(list, msg)
}
