package job

import "go.uber.org/fx"

// Module provides the on-time job as port.Job.
var Module = fx.Options(
	fx.Provide(NewOntimeJob),
)
