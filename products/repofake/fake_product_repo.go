package repofake

import (
	"context"
	"sync"

	"github.com/storegate/auth-server/products"
)

var _ products.Repo = (*FakeProductRepo)(nil)

// FakeProductRepo is an in-memory products.Repo for tests and local runs.
type FakeProductRepo struct {
	items []products.Product
	lock  sync.RWMutex
}

func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{}
}

func (pr *FakeProductRepo) Add(p products.Product) {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	pr.items = append(pr.items, p)
}

func (pr *FakeProductRepo) List(_ context.Context, releasedOnly bool) ([]products.Product, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	listed := make([]products.Product, 0, len(pr.items))
	for _, p := range pr.items {
		if releasedOnly && !p.Released {
			continue
		}
		listed = append(listed, p)
	}
	return listed, nil
}
