package distribution

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/config"
	matchingdomain "github.com/craftbid/matchengine/internal/matching/domain"
	messagingdomain "github.com/craftbid/matchengine/internal/messaging/domain"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	"github.com/craftbid/matchengine/pkg/repository"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxDescriptionChars = 300

// Orchestrator executes distribution jobs: select candidates, then notify
// them in bounded-concurrency batches through the messaging port.
type Orchestrator struct {
	log        *zap.Logger
	cfg        config.EngineConfig
	matcher    matchingdomain.Service
	projects   repository.Repository[projectdomain.Project]
	categories repository.Repository[projectdomain.Category]
	cities     repository.Repository[projectdomain.City]
	messenger  messagingdomain.Service
}

type OrchestratorParams struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Matcher    matchingdomain.Service
	Projects   repository.Repository[projectdomain.Project]
	Categories repository.Repository[projectdomain.Category]
	Cities     repository.Repository[projectdomain.City]
	Messenger  messagingdomain.Service
}

func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	return &Orchestrator{
		log:        p.Log.Named("distribution.orchestrator"),
		cfg:        p.Cfg.Engine,
		matcher:    p.Matcher,
		projects:   p.Projects,
		categories: p.Categories,
		cities:     p.Cities,
		messenger:  p.Messenger,
	}
}

// HandleDistributeProject is the asynq handler for TaskDistributeProject.
// Returning an error surfaces the failure to the queue for retry; per-supplier
// notification failures are absorbed here instead so one bad send never fails
// the job or its batch siblings.
func (o *Orchestrator) HandleDistributeProject(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload DistributeProjectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		obsmetrics.Engine().IncDistributionJob(obsmetrics.ResultError)
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	projectID, err := snowflake.ParseString(payload.ProjectID)
	if err != nil {
		obsmetrics.Engine().IncDistributionJob(obsmetrics.ResultError)
		return fmt.Errorf("parse project id %q: %w", payload.ProjectID, err)
	}

	err = o.distribute(ctx, projectID)
	obsmetrics.Engine().ObserveDistributeDuration(time.Since(start))
	if err != nil {
		obsmetrics.Engine().IncDistributionJob(obsmetrics.ResultError)
		return err
	}
	obsmetrics.Engine().IncDistributionJob(obsmetrics.ResultOK)
	return nil
}

func (o *Orchestrator) distribute(ctx context.Context, projectID snowflake.ID) error {
	log := o.log.With(zap.String("project_id", projectID.String()))

	project, err := o.projects.FindOne(ctx, &projectdomain.Project{ID: projectID})
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		// A deleted project is not worth a retry cycle.
		log.Warn("project vanished before distribution, dropping job")
		return nil
	}

	candidates, err := o.matcher.SelectCandidates(ctx, projectID)
	if err != nil {
		return fmt.Errorf("select candidates: %w", err)
	}
	if len(candidates) == 0 {
		log.Info("no matching suppliers, nothing to distribute")
		return nil
	}

	content, metadata, err := o.buildNotification(ctx, project)
	if err != nil {
		return err
	}

	var failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.cfg.NotifyBatchSize)
	for _, candidate := range candidates {
		group.Go(func() error {
			if err := o.notify(groupCtx, project, candidate.SupplierID, content, metadata); err != nil {
				failed.Add(1)
				obsmetrics.Engine().IncNotification(obsmetrics.ResultError)
				log.Error("supplier notification failed",
					zap.String("supplier_id", candidate.SupplierID.String()),
					zap.Error(err),
				)
				return nil
			}
			obsmetrics.Engine().IncNotification(obsmetrics.ResultOK)
			return nil
		})
	}
	_ = group.Wait()

	log.Info("distribution finished",
		zap.Int("candidates", len(candidates)),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, project *projectdomain.Project, supplierID snowflake.ID, content string, metadata map[string]any) error {
	projectID := project.ID
	conversationID, err := o.messenger.GetOrCreateConversation(ctx, project.CustomerID, supplierID, &projectID)
	if err != nil {
		return fmt.Errorf("get or create conversation: %w", err)
	}
	if _, err := o.messenger.SendMessage(ctx, project.CustomerID, conversationID, content, metadata); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (o *Orchestrator) buildNotification(ctx context.Context, project *projectdomain.Project) (string, map[string]any, error) {
	category, err := o.categories.FindOne(ctx, &projectdomain.Category{ID: project.CategoryID})
	if err != nil {
		return "", nil, fmt.Errorf("load category: %w", err)
	}
	city, err := o.cities.FindOne(ctx, &projectdomain.City{ID: project.CityID})
	if err != nil {
		return "", nil, fmt.Errorf("load city: %w", err)
	}

	categoryTitle, cityTitle := "", ""
	if category != nil {
		categoryTitle = category.Title
	}
	if city != nil {
		cityTitle = city.Title
	}

	content := fmt.Sprintf("New project: %s\n\n%s\n\n%s • %s",
		project.Title,
		truncate(project.Description, maxDescriptionChars),
		categoryTitle,
		cityTitle,
	)
	metadata := map[string]any{
		"type":          "project_notification",
		"projectId":     project.ID.String(),
		"projectTitle":  project.Title,
		"categoryTitle": categoryTitle,
		"cityTitle":     cityTitle,
	}
	return content, metadata, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
