package tasklet

import "go.uber.org/fx"

// Module is the Fx module for the tasklet components.
var Module = fx.Options(
	fx.Provide(NewCleanTasklet),
	fx.Provide(NewNormalizeTasklet),
)
