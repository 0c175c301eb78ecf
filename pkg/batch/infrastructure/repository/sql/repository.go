// Package sql implements repository.JobRepository on gorm.
package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/repository"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const moduleName = "repository"

// ErrNotFound is returned when a requested execution does not exist.
var ErrNotFound = errors.New("execution not found")

// GormJobRepository implements the repository.JobRepository interface.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository on db.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Migrate creates or updates the job_executions and step_executions tables.
func (r *GormJobRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&JobExecutionEntity{}, &StepExecutionEntity{}); err != nil {
		return exception.NewBatchError(moduleName, "failed to migrate job repository schema", err, false, false)
	}
	logger.Debugf("Job repository schema migrated.")
	return nil
}

// SaveJobExecution implements repository.JobRepository.
func (r *GormJobRepository) SaveJobExecution(ctx context.Context, execution *model.JobExecution) error {
	if err := r.db.WithContext(ctx).Create(toJobExecutionEntity(execution)).Error; err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to save JobExecution '%s'", execution.ID), err, false, true)
	}
	return nil
}

// UpdateJobExecution implements repository.JobRepository.
func (r *GormJobRepository) UpdateJobExecution(ctx context.Context, execution *model.JobExecution) error {
	if err := r.db.WithContext(ctx).Save(toJobExecutionEntity(execution)).Error; err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to update JobExecution '%s'", execution.ID), err, false, true)
	}
	return nil
}

// FindJobExecutionByID implements repository.JobRepository.
func (r *GormJobRepository) FindJobExecutionByID(ctx context.Context, id string) (*model.JobExecution, error) {
	var entity JobExecutionEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, r.notFoundOr(err, fmt.Sprintf("failed to find JobExecution '%s'", id))
	}
	je := entity.toModel()
	steps, err := r.FindStepExecutions(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, se := range steps {
		se.JobExecution = je
	}
	je.StepExecutions = steps
	return je, nil
}

// FindLatestJobExecution implements repository.JobRepository.
func (r *GormJobRepository) FindLatestJobExecution(ctx context.Context, jobName string) (*model.JobExecution, error) {
	var entity JobExecutionEntity
	if err := r.db.WithContext(ctx).Where("job_name = ?", jobName).Order("create_time desc").First(&entity).Error; err != nil {
		return nil, r.notFoundOr(err, fmt.Sprintf("failed to find latest JobExecution of '%s'", jobName))
	}
	return entity.toModel(), nil
}

// SaveStepExecution implements repository.JobRepository.
func (r *GormJobRepository) SaveStepExecution(ctx context.Context, execution *model.StepExecution) error {
	if err := r.db.WithContext(ctx).Create(toStepExecutionEntity(execution)).Error; err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to save StepExecution '%s'", execution.ID), err, false, true)
	}
	return nil
}

// UpdateStepExecution implements repository.JobRepository.
func (r *GormJobRepository) UpdateStepExecution(ctx context.Context, execution *model.StepExecution) error {
	if err := r.db.WithContext(ctx).Save(toStepExecutionEntity(execution)).Error; err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to update StepExecution '%s'", execution.ID), err, false, true)
	}
	return nil
}

// FindStepExecutions implements repository.JobRepository.
func (r *GormJobRepository) FindStepExecutions(ctx context.Context, jobExecutionID string) ([]*model.StepExecution, error) {
	var entities []StepExecutionEntity
	if err := r.db.WithContext(ctx).Where("job_execution_id = ?", jobExecutionID).Order("start_time asc").Find(&entities).Error; err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to find StepExecutions of '%s'", jobExecutionID), err, false, true)
	}
	steps := make([]*model.StepExecution, 0, len(entities))
	for i := range entities {
		steps = append(steps, entities[i].toModel())
	}
	return steps, nil
}

func (r *GormJobRepository) notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return exception.NewBatchError(moduleName, message, ErrNotFound, false, false)
	}
	return exception.NewBatchError(moduleName, message, err, false, true)
}

var _ repository.JobRepository = (*GormJobRepository)(nil)
