package distribution

import "go.uber.org/fx"

// Module provides the enqueue side plus the job handler.
var Module = fx.Module("distribution",
	fx.Provide(NewClient),
	fx.Provide(NewOrchestrator),
)

// WorkerModule additionally runs the queue consumer; only worker processes
// include it.
var WorkerModule = fx.Module("distribution.worker",
	fx.Provide(NewServeMux),
	fx.Invoke(RunWorker),
)
