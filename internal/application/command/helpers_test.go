package command

import (
	"context"
	"sort"
	"time"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/progress"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/routing"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type memProgressRepo struct {
	records  map[shared.UserID]*progress.UserProgress
	applyErr error
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[shared.UserID]*progress.UserProgress)}
}

func (r *memProgressRepo) GetByUserID(ctx context.Context, userID shared.UserID) (*progress.UserProgress, error) {
	p, ok := r.records[userID]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return p.Clone(), nil
}

func (r *memProgressRepo) ApplyCompletion(ctx context.Context, p *progress.UserProgress, xpDelta int64, prev *time.Time) (*progress.UserProgress, error) {
	if r.applyErr != nil {
		return nil, r.applyErr
	}
	cur, ok := r.records[p.UserID]
	if !ok {
		cur, _ = progress.NewUserProgress(p.UserID)
		r.records[p.UserID] = cur
	}
	if !sameInstant(cur.LastCompletion, prev) {
		return nil, shared.ErrAlreadyCompleted
	}
	cur.XP = cur.XP.Add(xpDelta)
	cur.Streak = p.Streak
	if p.BestStreak > cur.BestStreak {
		cur.BestStreak = p.BestStreak
	}
	cur.TotalCompletions++
	cur.LastCompletion = p.LastCompletion
	return cur.Clone(), nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (r *memProgressRepo) AddXP(ctx context.Context, userID shared.UserID, amount int64) (*progress.UserProgress, error) {
	p, ok := r.records[userID]
	if !ok {
		p, _ = progress.NewUserProgress(userID)
		r.records[userID] = p
	}
	if err := p.AddXP(amount); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (r *memProgressRepo) Top(ctx context.Context, limit int) ([]*progress.UserProgress, error) {
	all := make([]*progress.UserProgress, 0, len(r.records))
	for _, p := range r.records {
		all = append(all, p.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].XP != all[j].XP {
			return all[i].XP > all[j].XP
		}
		return all[i].UserID < all[j].UserID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memProgressRepo) Count(ctx context.Context) (int, error) {
	return len(r.records), nil
}

type memSuggestionRepo struct {
	suggestions map[int64]*challenge.Suggestion
	nextID      int64
	createErr   error
	approveErr  error
}

func newMemSuggestionRepo() *memSuggestionRepo {
	return &memSuggestionRepo{suggestions: make(map[int64]*challenge.Suggestion), nextID: 1}
}

func (r *memSuggestionRepo) Create(ctx context.Context, s *challenge.Suggestion) error {
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = r.nextID
	r.nextID++
	clone := *s
	r.suggestions[s.ID] = &clone
	return nil
}

func (r *memSuggestionRepo) GetByID(ctx context.Context, id int64) (*challenge.Suggestion, error) {
	s, ok := r.suggestions[id]
	if !ok {
		return nil, shared.ErrSuggestionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSuggestionRepo) Approve(ctx context.Context, id int64) error {
	if r.approveErr != nil {
		return r.approveErr
	}
	s, ok := r.suggestions[id]
	if !ok {
		return shared.ErrSuggestionNotFound
	}
	s.Approved = true
	return nil
}

func (r *memSuggestionRepo) PickAndConsumeApproved(ctx context.Context) (*challenge.Suggestion, error) {
	for id, s := range r.suggestions {
		if s.Approved {
			delete(r.suggestions, id)
			return s, nil
		}
	}
	return nil, shared.ErrNoApprovedSuggestions
}

func (r *memSuggestionRepo) ListPending(ctx context.Context, limit int) ([]*challenge.Suggestion, error) {
	var pending []*challenge.Suggestion
	for _, s := range r.suggestions {
		if !s.Approved {
			clone := *s
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *memSuggestionRepo) CountApproved(ctx context.Context) (int, error) {
	n := 0
	for _, s := range r.suggestions {
		if s.Approved {
			n++
		}
	}
	return n, nil
}

type memRoutingRepo struct {
	cfg     *routing.ChannelConfig
	loadErr error
	saveErr error
}

func (r *memRoutingRepo) Load(ctx context.Context) (*routing.ChannelConfig, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.cfg == nil {
		return nil, shared.ErrChannelsNotConfigured
	}
	return r.cfg, nil
}

func (r *memRoutingRepo) Save(ctx context.Context, cfg *routing.ChannelConfig) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.cfg = cfg
	return nil
}

func configuredRouting() *memRoutingRepo {
	cfg, _ := routing.NewChannelConfig(-100100, -100200, -100300)
	return &memRoutingRepo{cfg: cfg}
}

type capturingPublisher struct {
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(t shared.EventType) []shared.Event {
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}
