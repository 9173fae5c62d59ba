package distribution

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/config"
	matchingdomain "github.com/craftbid/matchengine/internal/matching/domain"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	"github.com/craftbid/matchengine/pkg/repository"
	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMatcher struct {
	candidates []matchingdomain.Candidate
	err        error
}

func (f *fakeMatcher) SelectCandidates(context.Context, snowflake.ID) ([]matchingdomain.Candidate, error) {
	return f.candidates, f.err
}

func (f *fakeMatcher) ExplainExclusions(context.Context, snowflake.ID) ([]matchingdomain.Exclusion, error) {
	return nil, nil
}

// fakeMessenger records every send and fails for the suppliers listed in
// failFor.
type fakeMessenger struct {
	mu      sync.Mutex
	failFor map[snowflake.ID]bool
	sent    []sentMessage
}

type sentMessage struct {
	supplierID snowflake.ID
	content    string
	metadata   map[string]any
}

func (f *fakeMessenger) GetOrCreateConversation(_ context.Context, _, supplierID snowflake.ID, _ *snowflake.ID) (snowflake.ID, error) {
	if f.failFor[supplierID] {
		return 0, errors.New("conversation backend down")
	}
	return supplierID, nil
}

func (f *fakeMessenger) SendMessage(_ context.Context, _, conversationID snowflake.ID, content string, metadata map[string]any) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{supplierID: conversationID, content: content, metadata: metadata})
	return conversationID, nil
}

type orchestratorFixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	matcher   *fakeMatcher
	messenger *fakeMessenger
	orch      *Orchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	obsmetrics.ResetEngineMetricsForTest()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&projectdomain.Project{},
		&projectdomain.Category{},
		&projectdomain.City{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	f := &orchestratorFixture{
		db:        db,
		node:      node,
		matcher:   &fakeMatcher{},
		messenger: &fakeMessenger{failFor: map[snowflake.ID]bool{}},
	}
	f.orch = NewOrchestrator(OrchestratorParams{
		Log:        zap.NewNop(),
		Cfg:        config.Config{Engine: config.DefaultEngineConfig()},
		Matcher:    f.matcher,
		Projects:   repository.ProvideStore[projectdomain.Project](db),
		Categories: repository.ProvideStore[projectdomain.Category](db),
		Cities:     repository.ProvideStore[projectdomain.City](db),
		Messenger:  f.messenger,
	})
	return f
}

func (f *orchestratorFixture) createProject(t *testing.T, title, description string) *projectdomain.Project {
	t.Helper()
	project := &projectdomain.Project{
		ID:          f.node.Generate(),
		CustomerID:  f.node.Generate(),
		CategoryID:  f.node.Generate(),
		CityID:      f.node.Generate(),
		Title:       title,
		Description: description,
		Status:      projectdomain.ProjectStatusPublic,
	}
	require.NoError(t, f.db.Create(project).Error)
	require.NoError(t, f.db.Create(&projectdomain.Category{ID: project.CategoryID, Title: "CNC Machining"}).Error)
	require.NoError(t, f.db.Create(&projectdomain.City{ID: project.CityID, Title: "Berlin"}).Error)
	return project
}

func distributeTask(t *testing.T, projectID snowflake.ID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(DistributeProjectPayload{ProjectID: projectID.String()})
	require.NoError(t, err)
	return asynq.NewTask(TaskDistributeProject, payload)
}

func TestHandleDistributeNotifiesEveryCandidate(t *testing.T) {
	f := newOrchestratorFixture(t)
	project := f.createProject(t, "Aluminium brackets", "200 parts, anodized")

	for i := 0; i < 7; i++ {
		f.matcher.candidates = append(f.matcher.candidates, matchingdomain.Candidate{
			SupplierID: f.node.Generate(),
			Score:      100,
			MatchType:  matchingdomain.MatchExact,
		})
	}

	err := f.orch.HandleDistributeProject(context.Background(), distributeTask(t, project.ID))
	require.NoError(t, err)
	require.Len(t, f.messenger.sent, 7)

	msg := f.messenger.sent[0]
	assert.Contains(t, msg.content, "Aluminium brackets")
	assert.Contains(t, msg.content, "200 parts, anodized")
	assert.Contains(t, msg.content, "CNC Machining • Berlin")
	assert.Equal(t, "project_notification", msg.metadata["type"])
	assert.Equal(t, project.ID.String(), msg.metadata["projectId"])
}

func TestHandleDistributeZeroCandidates(t *testing.T) {
	f := newOrchestratorFixture(t)
	project := f.createProject(t, "Lonely project", "")

	err := f.orch.HandleDistributeProject(context.Background(), distributeTask(t, project.ID))
	require.NoError(t, err)
	assert.Empty(t, f.messenger.sent)
}

func TestHandleDistributeOneFailureDoesNotBlockOthers(t *testing.T) {
	f := newOrchestratorFixture(t)
	project := f.createProject(t, "Steel frame", "welded, powder coated")

	var ids []snowflake.ID
	for i := 0; i < 5; i++ {
		id := f.node.Generate()
		ids = append(ids, id)
		f.matcher.candidates = append(f.matcher.candidates, matchingdomain.Candidate{
			SupplierID: id,
			Score:      100,
			MatchType:  matchingdomain.MatchExact,
		})
	}
	f.messenger.failFor[ids[2]] = true

	err := f.orch.HandleDistributeProject(context.Background(), distributeTask(t, project.ID))
	require.NoError(t, err)
	assert.Len(t, f.messenger.sent, 4)
	for _, msg := range f.messenger.sent {
		assert.NotEqual(t, ids[2], msg.supplierID)
	}
}

func TestHandleDistributeMissingProjectDropsJob(t *testing.T) {
	f := newOrchestratorFixture(t)

	// No retry cycle for a project that no longer exists.
	err := f.orch.HandleDistributeProject(context.Background(), distributeTask(t, f.node.Generate()))
	require.NoError(t, err)
	assert.Empty(t, f.messenger.sent)
}

func TestHandleDistributeBadPayload(t *testing.T) {
	f := newOrchestratorFixture(t)

	err := f.orch.HandleDistributeProject(context.Background(), asynq.NewTask(TaskDistributeProject, []byte("{not json")))
	assert.Error(t, err)

	payload, merr := json.Marshal(DistributeProjectPayload{ProjectID: "not-a-snowflake"})
	require.NoError(t, merr)
	err = f.orch.HandleDistributeProject(context.Background(), asynq.NewTask(TaskDistributeProject, payload))
	assert.Error(t, err)
}

func TestHandleDistributeTruncatesDescription(t *testing.T) {
	f := newOrchestratorFixture(t)
	long := strings.Repeat("ä", 400)
	project := f.createProject(t, "Long one", long)

	f.matcher.candidates = []matchingdomain.Candidate{{
		SupplierID: f.node.Generate(),
		Score:      100,
		MatchType:  matchingdomain.MatchExact,
	}}

	err := f.orch.HandleDistributeProject(context.Background(), distributeTask(t, project.ID))
	require.NoError(t, err)
	require.Len(t, f.messenger.sent, 1)
	assert.Contains(t, f.messenger.sent[0].content, strings.Repeat("ä", 300))
	assert.NotContains(t, f.messenger.sent[0].content, strings.Repeat("ä", 301))
}
