package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	"github.com/craftbid/matchengine/internal/config"
	matchingdomain "github.com/craftbid/matchengine/internal/matching/domain"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	supplierdomain "github.com/craftbid/matchengine/internal/supplier/domain"
	"github.com/craftbid/matchengine/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log       *zap.Logger
	cfg       config.EngineConfig
	clock     clock.Clock
	projects  repository.Repository[projectdomain.Project]
	suppliers supplierdomain.Repository
	scores    ratingdomain.ScoreProvider
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Projects  repository.Repository[projectdomain.Project]
	Suppliers supplierdomain.Repository
	Scores    ratingdomain.ScoreProvider
}

func New(p Params) matchingdomain.Service {
	return &Service{
		log:       p.Log.Named("matching.service"),
		cfg:       p.Cfg.Engine,
		clock:     p.Clock,
		projects:  p.Projects,
		suppliers: p.Suppliers,
		scores:    p.Scores,
	}
}

type scored struct {
	supplier  *supplierdomain.Supplier
	score     float64
	matchType matchingdomain.MatchType
	eligible  bool
}

func (s *Service) SelectCandidates(ctx context.Context, projectID snowflake.ID) ([]matchingdomain.Candidate, error) {
	pool, err := s.scorePool(ctx, projectID)
	if err != nil {
		return nil, err
	}

	candidates := make([]matchingdomain.Candidate, 0, s.cfg.MaxCandidates)
	for _, entry := range pool {
		if !entry.eligible {
			continue
		}
		candidates = append(candidates, matchingdomain.Candidate{
			SupplierID: entry.supplier.ID,
			Score:      entry.score,
			MatchType:  entry.matchType,
		})
		if len(candidates) == s.cfg.MaxCandidates {
			break
		}
	}
	return candidates, nil
}

func (s *Service) ExplainExclusions(ctx context.Context, projectID snowflake.ID) ([]matchingdomain.Exclusion, error) {
	pool, err := s.scorePool(ctx, projectID)
	if err != nil {
		return nil, err
	}

	selected := make(map[snowflake.ID]struct{}, s.cfg.MaxCandidates)
	lowestSelected := 0.0
	for _, entry := range pool {
		if !entry.eligible || len(selected) == s.cfg.MaxCandidates {
			continue
		}
		selected[entry.supplier.ID] = struct{}{}
		lowestSelected = entry.score
	}

	exclusions := make([]matchingdomain.Exclusion, 0, len(pool)-len(selected))
	for _, entry := range pool {
		if _, ok := selected[entry.supplier.ID]; ok {
			continue
		}
		exclusions = append(exclusions, matchingdomain.Exclusion{
			SupplierID: entry.supplier.ID,
			Reason:     s.classify(entry, len(selected) > 0, lowestSelected),
			Score:      entry.score,
			MatchType:  entry.matchType,
		})
	}
	return exclusions, nil
}

// classify picks exactly one reason per excluded supplier, in priority order.
func (s *Service) classify(entry scored, hasSelection bool, lowestSelected float64) matchingdomain.ExclusionReason {
	switch {
	case !entry.supplier.IsActive:
		return matchingdomain.ReasonInactive
	case entry.supplier.IsBlocked:
		return matchingdomain.ReasonBlocked
	case entry.supplier.Role != supplierdomain.RoleSupplier:
		return matchingdomain.ReasonInactive
	case hasSelection && entry.score < lowestSelected:
		return matchingdomain.ReasonLimitReached
	default:
		return matchingdomain.ReasonLowScore
	}
}

// scorePool scores the full category ∪ city pool, eligible or not, ordered by
// descending score with ascending supplier ID breaking ties so the output is
// reproducible.
func (s *Service) scorePool(ctx context.Context, projectID snowflake.ID) ([]scored, error) {
	project, err := s.projects.FindOne(ctx, &projectdomain.Project{ID: projectID})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, projectdomain.ErrNotFound
	}

	categoryIDs, err := s.suppliers.CategoryMemberIDs(ctx, project.CategoryID)
	if err != nil {
		return nil, err
	}
	cityIDs, err := s.suppliers.CityMemberIDs(ctx, project.CityID)
	if err != nil {
		return nil, err
	}

	inCategory := make(map[snowflake.ID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		inCategory[id] = struct{}{}
	}
	inCity := make(map[snowflake.ID]struct{}, len(cityIDs))
	for _, id := range cityIDs {
		inCity[id] = struct{}{}
	}

	poolIDs := make([]snowflake.ID, 0, len(categoryIDs)+len(cityIDs))
	poolIDs = append(poolIDs, categoryIDs...)
	for _, id := range cityIDs {
		if _, ok := inCategory[id]; !ok {
			poolIDs = append(poolIDs, id)
		}
	}

	suppliers, err := s.suppliers.FindByIDs(ctx, poolIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	pool := make([]scored, 0, len(suppliers))
	for _, supplier := range suppliers {
		matchType, matchBonus := s.match(supplier.ID, inCategory, inCity)
		pool = append(pool, scored{
			supplier:  supplier,
			score:     matchBonus + s.ratingBonus(ctx, supplier.ID) + recencyBonus(supplier.LastLoginAt, now),
			matchType: matchType,
			eligible:  supplier.IsActive && !supplier.IsBlocked && supplier.Role == supplierdomain.RoleSupplier,
		})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].supplier.ID < pool[j].supplier.ID
	})
	return pool, nil
}

func (s *Service) match(id snowflake.ID, inCategory, inCity map[snowflake.ID]struct{}) (matchingdomain.MatchType, float64) {
	_, category := inCategory[id]
	_, city := inCity[id]
	switch {
	case category && city:
		return matchingdomain.MatchExact, matchingdomain.ExactMatchBonus
	case category:
		return matchingdomain.MatchCategory, matchingdomain.CategoryMatchBonus
	default:
		return matchingdomain.MatchCity, matchingdomain.CityMatchBonus
	}
}

// ratingBonus degrades to 0 when the rating lookup fails: one missing data
// point must never abort a whole scoring pass.
func (s *Service) ratingBonus(ctx context.Context, supplierID snowflake.ID) float64 {
	total, err := s.scores.TotalScore(ctx, supplierID)
	if err != nil {
		s.log.Warn("rating lookup failed, scoring without rating bonus",
			zap.String("supplier_id", supplierID.String()),
			zap.Error(err),
		)
		return 0
	}
	return (total / 100) * matchingdomain.RatingBonusWeight
}

func recencyBonus(lastLoginAt *time.Time, now time.Time) float64 {
	if lastLoginAt == nil {
		return 0
	}
	switch since := now.Sub(*lastLoginAt); {
	case since <= 7*24*time.Hour:
		return matchingdomain.RecentLoginBonus
	case since <= 30*24*time.Hour:
		return matchingdomain.ActiveLoginBonus
	default:
		return 0
	}
}
