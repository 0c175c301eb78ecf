package sql

import (
	"time"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// JobExecutionEntity is the persisted form of model.JobExecution.
type JobExecutionEntity struct {
	ID          string              `gorm:"column:id;primaryKey;size:36"`
	JobName     string              `gorm:"column:job_name;size:128;index"`
	Parameters  model.JobParameters `gorm:"column:parameters;type:text"`
	StartTime   time.Time           `gorm:"column:start_time"`
	EndTime     *time.Time          `gorm:"column:end_time"`
	Status      string              `gorm:"column:status;size:16"`
	ExitStatus  string              `gorm:"column:exit_status;size:16"`
	Failures    model.FailureList   `gorm:"column:failures;type:text"`
	CreateTime  time.Time           `gorm:"column:create_time;index"`
	LastUpdated time.Time           `gorm:"column:last_updated"`
}

// TableName specifies the table name for JobExecutionEntity.
func (JobExecutionEntity) TableName() string {
	return "job_executions"
}

// StepExecutionEntity is the persisted form of model.StepExecution.
type StepExecutionEntity struct {
	ID               string                 `gorm:"column:id;primaryKey;size:36"`
	JobExecutionID   string                 `gorm:"column:job_execution_id;size:36;index"`
	StepName         string                 `gorm:"column:step_name;size:128"`
	StartTime        time.Time              `gorm:"column:start_time"`
	EndTime          *time.Time             `gorm:"column:end_time"`
	Status           string                 `gorm:"column:status;size:16"`
	ExitStatus       string                 `gorm:"column:exit_status;size:16"`
	Failures         model.FailureList      `gorm:"column:failures;type:text"`
	ReadCount        int                    `gorm:"column:read_count"`
	WriteCount       int                    `gorm:"column:write_count"`
	FilterCount      int                    `gorm:"column:filter_count"`
	ExecutionContext model.ExecutionContext `gorm:"column:execution_context;type:text"`
	LastUpdated      time.Time              `gorm:"column:last_updated"`
}

// TableName specifies the table name for StepExecutionEntity.
func (StepExecutionEntity) TableName() string {
	return "step_executions"
}

func toJobExecutionEntity(je *model.JobExecution) *JobExecutionEntity {
	return &JobExecutionEntity{
		ID:          je.ID,
		JobName:     je.JobName,
		Parameters:  je.Parameters,
		StartTime:   je.StartTime,
		EndTime:     je.EndTime,
		Status:      je.Status.String(),
		ExitStatus:  je.ExitStatus.String(),
		Failures:    je.Failures,
		CreateTime:  je.CreateTime,
		LastUpdated: je.LastUpdated,
	}
}

func (e *JobExecutionEntity) toModel() *model.JobExecution {
	return &model.JobExecution{
		ID:          e.ID,
		JobName:     e.JobName,
		Parameters:  e.Parameters,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Status:      model.JobStatus(e.Status),
		ExitStatus:  model.ExitStatus(e.ExitStatus),
		Failures:    e.Failures,
		CreateTime:  e.CreateTime,
		LastUpdated: e.LastUpdated,
	}
}

func toStepExecutionEntity(se *model.StepExecution) *StepExecutionEntity {
	return &StepExecutionEntity{
		ID:               se.ID,
		JobExecutionID:   se.JobExecutionID,
		StepName:         se.StepName,
		StartTime:        se.StartTime,
		EndTime:          se.EndTime,
		Status:           se.Status.String(),
		ExitStatus:       se.ExitStatus.String(),
		Failures:         se.Failures,
		ReadCount:        se.ReadCount,
		WriteCount:       se.WriteCount,
		FilterCount:      se.FilterCount,
		ExecutionContext: se.ExecutionContext,
		LastUpdated:      se.LastUpdated,
	}
}

func (e *StepExecutionEntity) toModel() *model.StepExecution {
	return &model.StepExecution{
		ID:               e.ID,
		JobExecutionID:   e.JobExecutionID,
		StepName:         e.StepName,
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		Status:           model.JobStatus(e.Status),
		ExitStatus:       model.ExitStatus(e.ExitStatus),
		Failures:         e.Failures,
		ReadCount:        e.ReadCount,
		WriteCount:       e.WriteCount,
		FilterCount:      e.FilterCount,
		ExecutionContext: e.ExecutionContext,
		LastUpdated:      e.LastUpdated,
	}
}
