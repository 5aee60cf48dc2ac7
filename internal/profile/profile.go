// Package profile maintains each user's running risk profile.
//
// The profile is a pure fold over the stream of per-message risk scores:
// only scores above the contribution threshold move the average, and
// unavailable assessments are skipped entirely. Folding is separated
// from storage so the arithmetic can be tested without any I/O.
package profile

import (
	"time"

	"github.com/mindcarehq/mindcare/internal/scoring"
)

// ContributionThreshold is the score a message must strictly exceed to
// contribute to the running average. Scores at or below it indicate
// content not severe enough to track.
const ContributionThreshold = 40

// Effect describes what a fold did to the profile. The values double as
// metrics labels.
type Effect string

const (
	EffectContributed    Effect = "contributed"
	EffectBelowThreshold Effect = "below_threshold"
	EffectUnavailable    Effect = "unavailable"
)

// Profile is a user's aggregated risk state.
type Profile struct {
	UserID       string    `json:"userId"`
	AverageScore int       `json:"averageScore"`
	TotalScored  int       `json:"totalScored"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Fold applies one assessment to a profile and reports its effect.
//
// The running average uses integer floor division at every step, the
// same arithmetic a profile accumulates when scores arrive one at a
// time, so replaying a score stream always reproduces the stored value:
//
//	avg' = (avg*n + score) / (n+1)
//
// Unavailable assessments and scores at or below the threshold leave
// the profile untouched.
func Fold(p Profile, s scoring.Score, now time.Time) (Profile, Effect) {
	if s.Unavailable {
		return p, EffectUnavailable
	}
	if s.Value <= ContributionThreshold {
		return p, EffectBelowThreshold
	}
	n := p.TotalScored
	p.AverageScore = (p.AverageScore*n + s.Value) / (n + 1)
	p.TotalScored = n + 1
	p.UpdatedAt = now
	return p, EffectContributed
}
