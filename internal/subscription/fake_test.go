// AngelaMos | 2026
// fake_test.go

package subscription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
)

type fakeRepo struct {
	mu           sync.Mutex
	subs         map[string]*Subscription
	conflictOnce bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{subs: make(map[string]*Subscription)}
}

func (f *fakeRepo) put(sub Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub.Version == 0 {
		sub.Version = 1
	}
	f.subs[sub.UserID] = &sub
}

func (f *fakeRepo) stored(userID string) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.subs[userID]
}

func (f *fakeRepo) Create(_ context.Context, sub *Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub.UserID]; ok {
		return fmt.Errorf("create subscription: %w", core.ErrDuplicateKey)
	}
	sub.Version = 1
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	cp := *sub
	f.subs[sub.UserID] = &cp
	return nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID string) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[userID]
	if !ok {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeRepo) GetByCustomerID(_ context.Context, customerID string) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.ProviderCustomerID != nil && *sub.ProviderCustomerID == customerID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get subscription by customer: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, sub *Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conflictOnce {
		f.conflictOnce = false
		return fmt.Errorf("update subscription: %w", core.ErrConflict)
	}

	stored, ok := f.subs[sub.UserID]
	if !ok || stored.Version != sub.Version {
		return fmt.Errorf("update subscription: %w", core.ErrConflict)
	}
	sub.Version++
	sub.UpdatedAt = time.Now()
	cp := *sub
	f.subs[sub.UserID] = &cp
	return nil
}

func (f *fakeRepo) CountByStatus(context.Context) ([]StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := map[Status]int{}
	for _, sub := range f.subs {
		counts[sub.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, StatusCount{Status: st, Count: n})
	}
	return out, nil
}

type fakeBilling struct {
	mu        sync.Mutex
	cancelled []string
	resumed   []string
	err       error
}

func (b *fakeBilling) CancelAtPeriodEnd(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.cancelled = append(b.cancelled, id)
	return nil
}

func (b *fakeBilling) Resume(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.resumed = append(b.resumed, id)
	return nil
}
