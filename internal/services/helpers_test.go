package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"local-branch/internal/entities"
	"local-branch/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type mockLocalBranchRepo struct {
	mock.Mock
}

func (m *mockLocalBranchRepo) ExistsByCodeOrEmail(ctx context.Context, tx pgx.Tx, branchCode, email string) (bool, error) {
	args := m.Called(ctx, tx, branchCode, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocalBranchRepo) CreateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error {
	args := m.Called(ctx, tx, branch)
	return args.Error(0)
}

func (m *mockLocalBranchRepo) FindByUserID(ctx context.Context, tx pgx.Tx, userID string) (*entities.LocalBranch, error) {
	args := m.Called(ctx, tx, userID)
	branch, _ := args.Get(0).(*entities.LocalBranch)
	return branch, args.Error(1)
}

func (m *mockLocalBranchRepo) GetLocalBranches(ctx context.Context) ([]entities.LocalBranch, error) {
	args := m.Called(ctx)
	branches, _ := args.Get(0).([]entities.LocalBranch)
	return branches, args.Error(1)
}

func (m *mockLocalBranchRepo) UpdateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error {
	args := m.Called(ctx, tx, branch)
	return args.Error(0)
}

// passThroughTxManager вызывает fn без реальной транзакции.
type passThroughTxManager struct{}

func (passThroughTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	failOn error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn != nil {
		return c.failOn
	}
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn != nil {
		return "", c.failOn
	}
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return c.failOn
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn != nil {
		return 0, c.failOn
	}
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memoryCache) Expire(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, c.failOn
}
