// Package resolver reconciles inconsistent team naming across independent
// data feeds into canonical team identities.
package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
)

// Resolver maps raw feed names to canonical teams. Resolution is
// deterministic for a fixed alias table; the only side effect is the miss
// record kept for alias-table curation.
type Resolver struct {
	teams   map[uuid.UUID]*models.Team
	byExact map[string]uuid.UUID
	byLower map[string]uuid.UUID

	mu     sync.Mutex
	misses map[string]*models.ResolutionMiss
}

// New builds a resolver over the team catalog. Canonical names and all known
// aliases enter the alias table.
func New(teams []*models.Team) *Resolver {
	r := &Resolver{
		teams:   make(map[uuid.UUID]*models.Team, len(teams)),
		byExact: make(map[string]uuid.UUID),
		byLower: make(map[string]uuid.UUID),
		misses:  make(map[string]*models.ResolutionMiss),
	}
	for _, team := range teams {
		r.teams[team.ID] = team
		r.addEntry(team.Name, team.ID)
		for _, alias := range team.Aliases {
			r.addEntry(alias, team.ID)
		}
	}
	return r
}

func (r *Resolver) addEntry(name string, id uuid.UUID) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, exists := r.byExact[name]; !exists {
		r.byExact[name] = id
	}
	lower := strings.ToLower(name)
	if _, exists := r.byLower[lower]; !exists {
		r.byLower[lower] = id
	}
}

// Resolve maps a raw feed name to its canonical team. On total failure it
// returns the best-effort stripped name along with ErrResolutionMiss and
// records the miss.
func (r *Resolver) Resolve(raw, source string) (*models.Team, string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return nil, "", fmt.Errorf("empty team name: %w", models.ErrResolutionMiss)
	}

	// Exact alias-table hit.
	if team, ok := r.lookupExact(name); ok {
		return team, name, nil
	}

	// Trailing "State" spelled out where the catalog uses "St."
	normalized := NormalizeSuffix(name)
	if normalized != name {
		if team, ok := r.lookupExact(normalized); ok {
			return team, normalized, nil
		}
	}

	// Case-insensitive exact match.
	if team, ok := r.lookupLower(name); ok {
		return team, name, nil
	}
	if normalized != name {
		if team, ok := r.lookupLower(normalized); ok {
			return team, normalized, nil
		}
	}

	// Mascot stripping: feeds often append one-, two-, or three-word
	// mascots ("Duke Blue Devils"). Drop trailing tokens and retry.
	tokens := strings.Fields(name)
	for drop := 1; drop <= 3 && drop < len(tokens); drop++ {
		candidate := strings.Join(tokens[:len(tokens)-drop], " ")
		if team, ok := r.lookupAny(candidate); ok {
			return team, candidate, nil
		}
		candidateNorm := NormalizeSuffix(candidate)
		if candidateNorm != candidate {
			if team, ok := r.lookupAny(candidateNorm); ok {
				return team, candidateNorm, nil
			}
		}
	}

	stripped := bestEffortStripped(name)
	r.recordMiss(raw, stripped, source)
	return nil, stripped, fmt.Errorf("team %q: %w", raw, models.ErrResolutionMiss)
}

func (r *Resolver) lookupExact(name string) (*models.Team, bool) {
	id, ok := r.byExact[name]
	if !ok {
		return nil, false
	}
	return r.teams[id], true
}

func (r *Resolver) lookupLower(name string) (*models.Team, bool) {
	id, ok := r.byLower[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return r.teams[id], true
}

func (r *Resolver) lookupAny(name string) (*models.Team, bool) {
	if team, ok := r.lookupExact(name); ok {
		return team, true
	}
	return r.lookupLower(name)
}

func (r *Resolver) recordMiss(raw, stripped, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if miss, ok := r.misses[raw]; ok {
		miss.Count++
		miss.LastSeen = time.Now().UTC()
	} else {
		r.misses[raw] = &models.ResolutionMiss{
			RawName:      raw,
			StrippedName: stripped,
			Source:       source,
			Count:        1,
			LastSeen:     time.Now().UTC(),
		}
	}
	metrics.ResolutionMissesTotal.WithLabelValues(source).Inc()
}

// Misses returns the accumulated resolution misses ordered by frequency,
// most frequent first.
func (r *Resolver) Misses() []models.ResolutionMiss {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ResolutionMiss, 0, len(r.misses))
	for _, miss := range r.misses {
		out = append(out, *miss)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RawName < out[j].RawName
	})
	return out
}

// NormalizeSuffix rewrites a trailing "State" token to the catalog's "St."
// abbreviation. Names beginning with "Saint" are left alone so "Saint
// Louis State" style names do not get mangled.
func NormalizeSuffix(name string) string {
	if strings.HasPrefix(name, "Saint") {
		return name
	}
	if strings.HasSuffix(name, " State") {
		return strings.TrimSuffix(name, "State") + "St."
	}
	return name
}

// bestEffortStripped is what a failed resolution reports: the name with a
// presumed one-word mascot removed, for the curation list.
func bestEffortStripped(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) <= 1 {
		return name
	}
	return strings.Join(tokens[:len(tokens)-1], " ")
}
