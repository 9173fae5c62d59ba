package distribution

import "github.com/bwmarrin/snowflake"

const (
	// TaskDistributeProject is the asynq task type for project fan-out.
	TaskDistributeProject = "distribute-project"
	// QueueProjectDistribution is the dedicated queue the worker consumes.
	QueueProjectDistribution = "project-distribution"
)

// DistributeProjectPayload is the wire payload of a distribution job. The
// queue guarantees at-least-once delivery; a re-run re-notifies suppliers
// because no per-project idempotency marker exists yet.
type DistributeProjectPayload struct {
	ProjectID string `json:"projectId"`
}

func newPayload(projectID snowflake.ID) DistributeProjectPayload {
	return DistributeProjectPayload{ProjectID: projectID.String()}
}
