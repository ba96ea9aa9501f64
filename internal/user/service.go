package user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/apperr"
	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/user/entity"
)

// Store is the lookup the resolver needs: a point read on the unique subject index.
type Store interface {
	GetBySubject(ctx context.Context, subject string) (*entity.User, error)
}

// Resolver maps an authenticated caller subject to the internal User record.
type Resolver struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewResolver(s Store, logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{store: s, logger: logger}
}

// ResolveCaller returns the User for subject. An empty subject means the
// transport found no authenticated identity. The lookup never creates users.
func (r *Resolver) ResolveCaller(ctx context.Context, subject string) (*entity.User, error) {
	if subject == "" {
		return nil, apperr.ErrUnauthenticated
	}
	u, err := r.store.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			r.logger.Debugw("caller has no user record", "subject", subject)
			return nil, fmt.Errorf("subject %s: %w", subject, apperr.ErrUserNotFound)
		}
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	return u, nil
}

// Current returns the caller's own record, or nil for an anonymous request.
func (r *Resolver) Current(ctx context.Context, subject string) (*entity.User, error) {
	if subject == "" {
		return nil, nil
	}
	return r.ResolveCaller(ctx, subject)
}
