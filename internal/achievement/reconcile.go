package achievement

import (
	"context"
	"fmt"
	"slices"

	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
)

// Store persists unlocked tiers for one user. Reconcile expects every call to
// run inside the same transaction.
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserAchievement, error)
	Insert(ctx context.Context, userID uuid.UUID, achievementType string, level int) (*UserAchievement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Result struct {
	Response  Response
	Unlocked  []*UserAchievement
	Revoked   []*UserAchievement
	Collapsed int
}

type tierKey struct {
	typ   string
	level int
}

type reconciler struct {
	store  Store
	userID uuid.UUID
	rows   map[tierKey]*UserAchievement
	result *Result
}

// Reconcile brings the persisted tiers of a user in line with base. A tier
// row exists afterwards exactly when its condition holds. Non-meta
// achievements are settled first, then the meta achievements in catalog
// order, each seeing the counts produced by the ones before it.
func Reconcile(ctx context.Context, store Store, userID uuid.UUID, base stats.UserStats) (*Result, error) {
	existing, err := store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	r := &reconciler{
		store:  store,
		userID: userID,
		rows:   make(map[tierKey]*UserAchievement, len(existing)),
		result: &Result{},
	}
	if err := r.index(ctx, existing); err != nil {
		return nil, err
	}

	s := base
	s.TotalAchievements = 0
	s.UnlockedAchievements = 0

	for _, a := range catalog {
		if a.IsMeta() {
			continue
		}
		if err := r.apply(ctx, a, s); err != nil {
			return nil, err
		}
	}

	for _, a := range catalog {
		if !a.IsMeta() {
			continue
		}
		s.TotalAchievements = r.countUnlocked(func(o Achievement) bool { return !o.IsMeta() })
		s.UnlockedAchievements = r.countUnlocked(func(o Achievement) bool { return o.ID != a.ID })
		if err := r.apply(ctx, a, s); err != nil {
			return nil, err
		}
	}

	r.result.Response = r.response(s)
	return r.result, nil
}

// index keeps the earliest row per tier and deletes the rest.
func (r *reconciler) index(ctx context.Context, existing []*UserAchievement) error {
	sorted := slices.Clone(existing)
	slices.SortStableFunc(sorted, func(a, b *UserAchievement) int {
		return a.UnlockedAt.Compare(b.UnlockedAt)
	})

	for _, row := range sorted {
		key := tierKey{row.Type, row.Level}
		if _, dup := r.rows[key]; !dup {
			r.rows[key] = row
			continue
		}
		if err := r.store.Delete(ctx, row.ID); err != nil {
			return fmt.Errorf("failed to remove duplicate achievement %s level %d: %w", row.Type, row.Level, err)
		}
		r.result.Collapsed++
	}
	return nil
}

func (r *reconciler) apply(ctx context.Context, a Achievement, s stats.UserStats) error {
	for _, l := range a.Levels {
		key := tierKey{a.Type(), l.Level}
		row, persisted := r.rows[key]
		met := l.Satisfied(s)

		switch {
		case met && !persisted:
			inserted, err := r.store.Insert(ctx, r.userID, key.typ, key.level)
			if err != nil {
				return fmt.Errorf("failed to unlock %s level %d: %w", key.typ, key.level, err)
			}
			r.rows[key] = inserted
			r.result.Unlocked = append(r.result.Unlocked, inserted)
		case !met && persisted:
			if err := r.store.Delete(ctx, row.ID); err != nil {
				return fmt.Errorf("failed to revoke %s level %d: %w", key.typ, key.level, err)
			}
			delete(r.rows, key)
			r.result.Revoked = append(r.result.Revoked, row)
		}
	}
	return nil
}

func (r *reconciler) hasAnyLevel(a Achievement) bool {
	for _, l := range a.Levels {
		if _, ok := r.rows[tierKey{a.Type(), l.Level}]; ok {
			return true
		}
	}
	return false
}

func (r *reconciler) countUnlocked(include func(Achievement) bool) int {
	n := 0
	for _, a := range catalog {
		if include(a) && r.hasAnyLevel(a) {
			n++
		}
	}
	return n
}

func (r *reconciler) response(s stats.UserStats) Response {
	list := make([]AchievementWithStatus, 0, len(catalog))
	for _, a := range catalog {
		status := AchievementWithStatus{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Levels:      make([]LevelStatus, 0, len(a.Levels)),
		}
		for _, l := range a.Levels {
			ls := LevelStatus{Level: l.Level}
			if row, ok := r.rows[tierKey{a.Type(), l.Level}]; ok {
				unlockedAt := row.UnlockedAt
				ls.Unlocked = true
				ls.UnlockedAt = &unlockedAt
				status.HighestLevel = max(status.HighestLevel, l.Level)
			}
			status.Levels = append(status.Levels, ls)
		}
		status.IsUnlocked = status.HighestLevel > 0
		list = append(list, status)
	}

	return Response{
		Status:       "success",
		Achievements: list,
		UserStats:    s,
	}
}
