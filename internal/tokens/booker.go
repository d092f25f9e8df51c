// Package tokens issues session-scoped e-tokens and keeps them in a Store.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"ask_saturation/internal/models"
)

var ErrEmptyName = errors.New("requester name is required")

// Store keeps the tokens of each session. Tokens are append-only.
type Store interface {
	Append(ctx context.Context, session string, token models.Token) error
	List(ctx context.Context, session string) ([]models.Token, error)
}

type Booker struct {
	store Store
	now   func() time.Time
	intn  func(n int) int
}

type Option func(*Booker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Booker) { b.now = now }
}

// WithIntn overrides the random source used for token numbers.
func WithIntn(intn func(n int) int) Option {
	return func(b *Booker) { b.intn = intn }
}

func NewBooker(store Store, opts ...Option) *Booker {
	b := &Booker{store: store, now: time.Now, intn: rand.IntN}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Book issues a token for the scored center and appends it to the session.
func (b *Booker) Book(ctx context.Context, session string, center models.ScoredCenter, requester string) (models.Token, error) {
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return models.Token{}, ErrEmptyName
	}

	issued := b.now()
	token := models.Token{
		ID:                   fmt.Sprintf("UID-%d", 1000+b.intn(8999)),
		CenterName:           center.Center.Name,
		RequesterName:        requester,
		WaitMinutes:          center.WaitMinutes,
		IssuedAt:             issued,
		EstimatedServiceTime: issued.Add(time.Duration(center.WaitMinutes) * time.Minute),
	}

	if err := b.store.Append(ctx, session, token); err != nil {
		return models.Token{}, fmt.Errorf("error storing token %s: %w", token.ID, err)
	}
	return token, nil
}

func (b *Booker) List(ctx context.Context, session string) ([]models.Token, error) {
	list, err := b.store.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("error listing tokens: %w", err)
	}
	return list, nil
}

func sessionKey(session string) string {
	return "tokens:session:" + session
}
