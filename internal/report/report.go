// Package report builds the admin-facing view of user risk: every
// registered account joined with its risk profile, most concerning
// first. The projection is read-only; it never mutates profiles.
package report

import (
	"context"
	"sort"

	"github.com/mindcarehq/mindcare/internal/profile"
	"github.com/mindcarehq/mindcare/internal/users"
)

// Entry is one row of the risk report.
type Entry struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	PhoneNo     string `json:"phoneNo"`
	Email       string `json:"email"`
	Score       int    `json:"score"`
	TotalScored int    `json:"totalScored"`
}

// UserSource lists registered accounts in signup order.
type UserSource interface {
	ListUsers(ctx context.Context) ([]*users.User, error)
}

// ProfileSource lists stored risk profiles.
type ProfileSource interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

// Service assembles the risk report.
type Service struct {
	users    UserSource
	profiles ProfileSource
}

// NewService creates a report service.
func NewService(u UserSource, p ProfileSource) *Service {
	return &Service{users: u, profiles: p}
}

// Build returns one entry per registered user, sorted by score
// descending. Users without a profile appear with score 0. Equal scores
// keep signup order, so the listing is stable across rebuilds.
func (s *Service) Build(ctx context.Context) ([]Entry, error) {
	accounts, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	entries := make([]Entry, 0, len(accounts))
	for _, u := range accounts {
		phone := u.Phone
		if phone == "" {
			phone = "N/A"
		}
		p := byUser[u.ID]
		entries = append(entries, Entry{
			UserID:      u.ID,
			Name:        u.Name,
			PhoneNo:     phone,
			Email:       u.Email,
			Score:       p.AverageScore,
			TotalScored: p.TotalScored,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}
