package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/yourusername/pick-engine/internal/models"
)

// CachedTeamRepository wraps a TeamRepository with a read-through cache. The
// resolver hits the catalog once per raw name in a feed batch, so catalog
// reads dominate team traffic; writes invalidate the affected entries.
type CachedTeamRepository struct {
	inner TeamRepository
	cache *cache.Cache
}

// NewCachedTeamRepository creates the caching wrapper with the given TTL.
func NewCachedTeamRepository(inner TeamRepository, ttl time.Duration) *CachedTeamRepository {
	return &CachedTeamRepository{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func teamKey(id uuid.UUID) string {
	return "team:" + id.String()
}

func sportKey(sport models.Sport) string {
	return "sport:" + string(sport)
}

// Create inserts a new team and invalidates the sport listing
func (r *CachedTeamRepository) Create(ctx context.Context, team *models.Team) error {
	if err := r.inner.Create(ctx, team); err != nil {
		return err
	}
	r.cache.Delete(sportKey(team.Sport))
	return nil
}

// GetByID retrieves a team, from cache when fresh
func (r *CachedTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	if cached, found := r.cache.Get(teamKey(id)); found {
		if team, ok := cached.(*models.Team); ok {
			return team, nil
		}
	}

	team, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(teamKey(id), team)
	return team, nil
}

// GetBySport retrieves a sport's catalog, from cache when fresh
func (r *CachedTeamRepository) GetBySport(ctx context.Context, sport models.Sport) ([]*models.Team, error) {
	if cached, found := r.cache.Get(sportKey(sport)); found {
		if teams, ok := cached.([]*models.Team); ok {
			return teams, nil
		}
	}

	teams, err := r.inner.GetBySport(ctx, sport)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(sportKey(sport), teams)
	return teams, nil
}

// AddAlias appends an alias and invalidates the team's cache entries
func (r *CachedTeamRepository) AddAlias(ctx context.Context, id uuid.UUID, alias string) error {
	if err := r.inner.AddAlias(ctx, id, alias); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// Update updates a team and invalidates its cache entries
func (r *CachedTeamRepository) Update(ctx context.Context, team *models.Team) error {
	if err := r.inner.Update(ctx, team); err != nil {
		return err
	}
	r.cache.Delete(teamKey(team.ID))
	r.cache.Delete(sportKey(team.Sport))
	return nil
}

func (r *CachedTeamRepository) invalidate(id uuid.UUID) {
	if cached, found := r.cache.Get(teamKey(id)); found {
		if team, ok := cached.(*models.Team); ok {
			r.cache.Delete(sportKey(team.Sport))
		}
	}
	r.cache.Delete(teamKey(id))
}
