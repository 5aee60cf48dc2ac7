package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/circuitbreaker"
	"github.com/mindcarehq/mindcare/internal/idgen"
	"github.com/mindcarehq/mindcare/internal/llm"
	"github.com/mindcarehq/mindcare/internal/logging"
	"github.com/mindcarehq/mindcare/internal/metrics"
	"github.com/mindcarehq/mindcare/internal/pagination"
	"github.com/mindcarehq/mindcare/internal/profile"
	"github.com/mindcarehq/mindcare/internal/scoring"
	"github.com/mindcarehq/mindcare/internal/traces"
)

// ReplyBreakerKey identifies the reply upstream in the shared circuit breaker.
const ReplyBreakerKey = "reply"

// Reply generation wants a warm but focused register and answers capped
// around 300 words.
const (
	replyTemperature = 0.5
	replyMaxTokens   = 500
)

// Publisher receives profile updates for live streaming. Implementations
// must not block.
type Publisher interface {
	ProfileUpdated(p profile.Profile)
}

// Service orchestrates one conversation turn: persist the user's
// message, obtain a reply, persist it, then run the risk pipeline.
type Service struct {
	messages Store
	profiles profile.Store
	replies  llm.Client
	scorer   *scoring.Scorer
	breaker  *circuitbreaker.Breaker
	window   int
	events   Publisher
	now      func() time.Time
}

// Options configures a Service.
type Options struct {
	Messages Store
	Profiles profile.Store
	Replies  llm.Client // nil means replies are unavailable
	Scorer   *scoring.Scorer
	Breaker  *circuitbreaker.Breaker
	// HistoryWindow bounds how many stored messages are replayed as
	// model context. Zero means no stored context.
	HistoryWindow int
	Events        Publisher // optional
}

// NewService builds the turn orchestrator.
func NewService(opts Options) *Service {
	return &Service{
		messages: opts.Messages,
		profiles: opts.Profiles,
		replies:  opts.Replies,
		scorer:   opts.Scorer,
		breaker:  opts.Breaker,
		window:   opts.HistoryWindow,
		events:   opts.Events,
		now:      time.Now,
	}
}

// HandleTurn runs one full conversation turn and returns the reply text.
//
// The ordering is fixed: the user's message is persisted before the
// reply call, and the reply is persisted before scoring starts. A
// failure before the reply is persisted fails the whole turn; once both
// messages are stored the turn succeeds no matter what the risk
// pipeline does. An unscored message stays scorable by a future
// recomputation, so scoring failures are logged and absorbed rather
// than surfaced to the user mid-conversation.
//
// history is optional caller-supplied context; when nil the stored
// transcript window is used instead.
func (s *Service) HandleTurn(ctx context.Context, userID, text string, history []llm.Message) (string, error) {
	if strings.TrimSpace(text) == "" {
		metrics.ChatTurnsTotal.WithLabelValues("validation_error").Inc()
		return "", ErrEmptyMessage
	}

	ctx, span := traces.StartSpan(ctx, "chat.turn", traces.UserID(userID))
	defer span.End()

	userMsg := &Message{
		ID:        idgen.WithPrefix("msg_"),
		UserID:    userID,
		Role:      RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("persistence_error").Inc()
		return "", fmt.Errorf("%w: save user message: %v", ErrPersistence, err)
	}

	reply, err := s.generateReply(ctx, userID, text, history)
	if err != nil {
		logging.L(ctx).Warn("reply unavailable", "user_id", userID, "error", err)
		metrics.ChatTurnsTotal.WithLabelValues("service_unavailable").Inc()
		return "", fmt.Errorf("%w: %v", ErrReplyUnavailable, err)
	}

	replyMsg := &Message{
		ID:        idgen.WithPrefix("msg_"),
		UserID:    userID,
		Role:      RoleAssistant,
		Content:   reply,
		CreatedAt: s.now(),
	}
	if err := s.messages.Append(ctx, replyMsg); err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("persistence_error").Inc()
		return "", fmt.Errorf("%w: save reply: %v", ErrPersistence, err)
	}

	s.updateProfile(ctx, userID, text)

	metrics.ChatTurnsTotal.WithLabelValues("ok").Inc()
	return reply, nil
}

func (s *Service) generateReply(ctx context.Context, userID, text string, history []llm.Message) (string, error) {
	if s.replies == nil {
		return "", llm.ErrNotConfigured
	}
	if s.breaker != nil && !s.breaker.Allow(ReplyBreakerKey) {
		return "", fmt.Errorf("circuit open")
	}

	if history == nil {
		stored, err := s.storedContext(ctx, userID)
		if err != nil {
			// Context is best effort; a reply without it beats no reply.
			logging.L(ctx).Warn("loading context failed", "user_id", userID, "error", err)
		}
		history = stored
	} else {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: text})
	}
	// The model must always see the message it is answering, even when the
	// window is zero or the transcript read failed.
	if len(history) == 0 {
		history = []llm.Message{{Role: llm.RoleUser, Content: text}}
	}

	reply, err := s.replies.Complete(ctx, llm.Request{
		System:      personaPrompt,
		Messages:    history,
		Temperature: replyTemperature,
		MaxTokens:   replyMaxTokens,
	})
	if err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure(ReplyBreakerKey)
		}
		return "", err
	}
	if s.breaker != nil {
		s.breaker.RecordSuccess(ReplyBreakerKey)
	}
	return reply, nil
}

// storedContext replays the latest transcript window, which already
// includes the just-persisted user message.
func (s *Service) storedContext(ctx context.Context, userID string) ([]llm.Message, error) {
	if s.window <= 0 {
		return nil, nil
	}
	recent, err := s.messages.Recent(ctx, userID, s.window)
	if err != nil {
		return nil, err
	}
	out := make([]llm.Message, 0, len(recent))
	for _, m := range recent {
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out, nil
}

// updateProfile runs the risk pipeline for one user message. All
// failures are absorbed: the turn already succeeded.
func (s *Service) updateProfile(ctx context.Context, userID, text string) {
	score := s.scorer.Assess(ctx, text)

	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		logging.L(ctx).Error("loading risk profile failed", "user_id", userID, "error", err)
		return
	}

	folded, effect := profile.Fold(prof, score, s.now())
	metrics.ProfileFoldsTotal.WithLabelValues(string(effect)).Inc()
	if effect != profile.EffectContributed {
		return
	}

	if err := s.profiles.Upsert(ctx, folded); err != nil {
		logging.L(ctx).Error("saving risk profile failed", "user_id", userID, "error", err)
		return
	}
	logging.L(ctx).Info("risk profile updated",
		"user_id", userID,
		"score", score.Value,
		"band", metrics.Band(score.Value),
		"average", folded.AverageScore,
		"total_scored", folded.TotalScored)

	if s.events != nil {
		s.events.ProfileUpdated(folded)
	}
}

// History returns a page of a user's transcript, newest first, plus the
// cursor for the next page.
func (s *Service) History(ctx context.Context, userID string, limit int, cursor string) ([]*Message, string, error) {
	before, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	msgs, err := s.messages.History(ctx, userID, limit, before)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load history: %v", ErrPersistence, err)
	}
	page, next, _ := pagination.ComputePage(msgs, limit, func(m *Message) (time.Time, string) {
		return m.CreatedAt, m.ID
	})
	return page, next, nil
}
