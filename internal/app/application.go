// Package app wires the on-time job with uber-fx and runs it once.
package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	appJob "github.com/tigerroll/ontime/internal/job"
	"github.com/tigerroll/ontime/internal/step/tasklet"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/infrastructure/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// stopTimeout bounds the OnStop hooks (trace flush, connection close).
const stopTimeout = 30 * time.Second

// RunApplication loads the configuration, runs the job and returns the process exit code:
// 0 when the job completed, 1 when it failed or could not start.
func RunApplication(appCtx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig) int {
	app := fx.New(
		fx.Supply(
			embeddedConfig,
			fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
			fx.Annotate(
				appCtx,
				fx.As(new(context.Context)),
				fx.ResultTags(`name:"appCtx"`),
			),
		),
		logger.Module,
		fx.Provide(config.NewConfigProvider),
		config.Module,
		metrics.Module,
		Module,
		tasklet.Module,
		appJob.Module,

		fx.Invoke(fx.Annotate(startJobExecution, fx.ParamTags(
			"",              // lc fx.Lifecycle
			"",              // shutdowner fx.Shutdowner
			"",              // job port.Job
			"",              // recorder *metrics.PrometheusRecorder
			"",              // cfg *config.Config
			`name:"appCtx"`, // appCtx context.Context
		))),
	)
	if err := app.Err(); err != nil {
		logger.Errorf("Failed to build application: %v", err)
		return 1
	}

	if err := app.Start(appCtx); err != nil {
		logger.Errorf("Failed to start application: %v", err)
		return 1
	}
	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Errorf("Failed to stop application cleanly: %v", err)
	}
	return sig.ExitCode
}

// startJobExecution is invoked by Fx to run the job once the application has started.
func startJobExecution(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	job port.Job,
	recorder *metrics.PrometheusRecorder,
	cfg *config.Config,
	appCtx context.Context,
) {
	lc.Append(fx.Hook{
		OnStart: onStartJobExecution(job, recorder, cfg, shutdowner, appCtx),
		OnStop:  onStopApplication(),
	})
}

// onStartJobExecution runs the job in the background and requests shutdown with the job's exit code.
func onStartJobExecution(
	job port.Job,
	recorder *metrics.PrometheusRecorder,
	cfg *config.Config,
	shutdowner fx.Shutdowner,
	appCtx context.Context,
) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		go func() {
			exitCode := 1
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Panic recovered in job execution: %v", r)
					exitCode = 1
				}
				logger.Infof("Requesting application shutdown after job completion (exit code %d).", exitCode)
				if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
					logger.Errorf("Failed to shutdown application: %v", err)
				}
			}()

			b := cfg.Ontime.Batch
			jobExecution := model.NewJobExecution(job.JobName(), model.JobParameters{
				"storage":    b.StorageRef,
				"input":      b.InputObject,
				"cleaned":    b.CleanedObject,
				"normalized": b.NormalizedObject,
			})
			logger.Infof("Starting job '%s' (Execution ID: %s)...", job.JobName(), jobExecution.ID)

			if err := job.Run(appCtx, jobExecution); err != nil {
				logger.Errorf("Job '%s' failed: %v", job.JobName(), err)
			} else {
				exitCode = 0
			}

			if url := cfg.Ontime.Metrics.PushgatewayURL; url != "" {
				if err := recorder.Push(context.Background(), url, job.JobName()); err != nil {
					logger.Warnf("Failed to push metrics: %v", err)
				}
			}
		}()
		return nil
	}
}

// onStopApplication logs application shutdown.
func onStopApplication() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Infof("Application is shutting down.")
		return nil
	}
}
