package profile

import "context"

// Store persists risk profiles.
//
// Get returns a zero-valued profile (not an error) when the user has no
// stored profile yet; the fold starts from that default. Upsert is a
// plain overwrite: when two turns for the same user race, the last
// writer wins and the loser's contribution is dropped.
type Store interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
	List(ctx context.Context) ([]Profile, error)
}
