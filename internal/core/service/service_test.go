package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wsapp/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     []*domain.User
	listCalls int
	createErr error
	listErr   error
	// afterRead runs once the snapshot is taken, before List returns.
	afterRead func()
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for i := len(r.users) - 1; i >= 0; i-- {
		clone := *r.users[i]
		out = append(out, &clone)
	}
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, in domain.NewUser) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	now := time.Now().UTC()
	u := &domain.User{ID: uuid.New(), Name: in.Name, Email: in.Email, CreatedAt: now, UpdatedAt: now}
	r.users = append(r.users, u)
	return u, nil
}

type stubProductRepo struct {
	last *domain.NewProduct
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	return []*domain.Product{}, nil
}

func (r *stubProductRepo) Create(_ context.Context, in domain.NewProduct) (*domain.Product, error) {
	r.last = &in
	return &domain.Product{ID: uuid.New(), Name: in.Name, Description: in.Description, Price: in.Price, Stock: in.Stock}, nil
}

type stubOrderRepo struct {
	last      *domain.NewOrder
	createErr error
}

func (r *stubOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func (r *stubOrderRepo) Create(_ context.Context, in domain.NewOrder) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.last = &in
	return &domain.Order{ID: uuid.New(), UserID: in.UserID, TotalAmount: in.TotalAmount, Status: in.Status}, nil
}

// stubCache keeps generation-keyed JSON blobs in memory, like the Redis
// implementation.
type stubCache struct {
	data        map[string][]byte
	gens        map[string]int64
	getErr      error
	sets        int
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte), gens: make(map[string]int64)}
}

func (c *stubCache) entry(key string, gen int64) string {
	return fmt.Sprintf("%s:%d", key, gen)
}

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, int64, error) {
	if c.getErr != nil {
		return false, 0, c.getErr
	}
	gen := c.gens[key]
	raw, ok := c.data[c.entry(key, gen)]
	if !ok {
		return false, gen, nil
	}
	return true, gen, json.Unmarshal(raw, dst)
}

func (c *stubCache) Set(_ context.Context, key string, gen int64, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.data[c.entry(key, gen)] = raw
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, key string) error {
	c.invalidated = append(c.invalidated, key)
	c.gens[key]++
	return nil
}

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// UserService
// ---------------------------------------------------------------------------

func TestUserService_Create_Success(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewUserService(repo, nil, discardLogger)

	u, err := svc.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if u.Email != "ana@x.io" {
		t.Errorf("expected email ana@x.io, got %q", u.Email)
	}
}

func TestUserService_Create_PropagatesConstraintError(t *testing.T) {
	repo := &stubUserRepo{createErr: &domain.ConstraintError{Kind: domain.ConstraintUnique, Table: "users"}}
	svc := NewUserService(repo, nil, discardLogger)

	_, err := svc.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.io"})
	if !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}
}

func TestUserService_List_WithoutCacheAlwaysHitsRepo(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewUserService(repo, nil, discardLogger)

	for i := 0; i < 3; i++ {
		if _, err := svc.ListUsers(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if repo.listCalls != 3 {
		t.Errorf("expected 3 repo calls, got %d", repo.listCalls)
	}
}

func TestUserService_List_ServedFromCache(t *testing.T) {
	repo := &stubUserRepo{}
	cache := newStubCache()
	svc := NewUserService(repo, cache, discardLogger)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.io"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if repo.listCalls != 1 {
		t.Errorf("expected second list to be served from cache, repo called %d times", repo.listCalls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Errorf("cached list differs: %v vs %v", first, second)
	}
}

func TestUserService_Create_InvalidatesCache(t *testing.T) {
	repo := &stubUserRepo{}
	cache := newStubCache()
	svc := NewUserService(repo, cache, discardLogger)
	ctx := context.Background()

	if _, err := svc.ListUsers(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.CreateUser(ctx, domain.NewUser{Name: "Bo", Email: "bo@x.io"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(users) != 1 {
		t.Fatalf("expected new user to be visible after create, got %d users", len(users))
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != usersKey {
		t.Errorf("expected %q invalidated once, got %v", usersKey, cache.invalidated)
	}
}

func TestUserService_List_CreateDuringLoadIsNotHidden(t *testing.T) {
	repo := &stubUserRepo{}
	cache := newStubCache()
	svc := NewUserService(repo, cache, discardLogger)
	ctx := context.Background()

	// The create commits and invalidates after the list has read the table
	// but before it writes the cache.
	repo.afterRead = func() {
		if _, err := svc.CreateUser(ctx, domain.NewUser{Name: "Bo", Email: "bo@x.io"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	before, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected the racing list to see the pre-insert table, got %d users", len(before))
	}

	after, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("list started after create returned must see the row, got %d users", len(after))
	}
	if repo.listCalls != 2 {
		t.Errorf("expected a fresh load after the race, repo called %d times", repo.listCalls)
	}

	// The fresh load is cached under the new generation.
	if _, err := svc.ListUsers(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.listCalls != 2 {
		t.Errorf("expected third list served from cache, repo called %d times", repo.listCalls)
	}
}

func TestUserService_List_CacheErrorSkipsWrite(t *testing.T) {
	repo := &stubUserRepo{}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewUserService(repo, cache, discardLogger)

	if _, err := svc.ListUsers(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if cache.sets != 0 {
		t.Errorf("expected no cache write without a known generation, got %d", cache.sets)
	}
}

func TestUserService_Create_FailureKeepsCache(t *testing.T) {
	repo := &stubUserRepo{createErr: domain.ErrConnectivity}
	cache := newStubCache()
	svc := NewUserService(repo, cache, discardLogger)

	_, _ = svc.CreateUser(context.Background(), domain.NewUser{Name: "Ana", Email: "ana@x.io"})
	if len(cache.invalidated) != 0 {
		t.Errorf("failed create must not invalidate, got %v", cache.invalidated)
	}
}

func TestUserService_List_CacheErrorFallsBackToRepo(t *testing.T) {
	repo := &stubUserRepo{}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewUserService(repo, cache, discardLogger)

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the call: %v", err)
	}
	if users == nil {
		t.Error("expected empty slice, got nil")
	}
	if repo.listCalls != 1 {
		t.Errorf("expected repo fallback, got %d calls", repo.listCalls)
	}
}

func TestUserService_List_RepoErrorIsReturned(t *testing.T) {
	repo := &stubUserRepo{listErr: domain.ErrConnectivity}
	svc := NewUserService(repo, newStubCache(), discardLogger)

	if _, err := svc.ListUsers(context.Background()); !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ProductService / OrderService
// ---------------------------------------------------------------------------

func TestProductService_Create_PassesDraftThrough(t *testing.T) {
	repo := &stubProductRepo{}
	cache := newStubCache()
	svc := NewProductService(repo, cache, discardLogger)

	p, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: "Pen", Price: decimal.RequireFromString("1.01")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.last.Price.String(); got != "1.01" {
		t.Errorf("expected price bound as 1.01, got %s", got)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != productsKey {
		t.Errorf("expected %q invalidated once, got %v", productsKey, cache.invalidated)
	}
	if p.Stock != domain.DefaultStock {
		t.Errorf("expected stock %d, got %d", domain.DefaultStock, p.Stock)
	}
}

func TestOrderService_Create_GuestOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewOrderService(repo, newStubCache(), discardLogger)

	o, err := svc.CreateOrder(context.Background(), domain.NewOrder{TotalAmount: decimal.NewFromInt(10), Status: domain.DefaultOrderStatus})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.UserID != nil {
		t.Errorf("expected guest order, got user %v", o.UserID)
	}
	if o.Status != "pending" {
		t.Errorf("expected status pending, got %q", o.Status)
	}
}

func TestOrderService_Create_UnknownUser(t *testing.T) {
	uid := uuid.New()
	repo := &stubOrderRepo{createErr: &domain.ConstraintError{Kind: domain.ConstraintForeignKey, Table: "orders"}}
	cache := newStubCache()
	svc := NewOrderService(repo, cache, discardLogger)

	_, err := svc.CreateOrder(context.Background(), domain.NewOrder{UserID: &uid, TotalAmount: decimal.NewFromInt(1), Status: "paid"})

	var ce *domain.ConstraintError
	if !errors.As(err, &ce) || ce.Kind != domain.ConstraintForeignKey {
		t.Fatalf("expected foreign key ConstraintError, got %v", err)
	}
	if len(cache.invalidated) != 0 {
		t.Errorf("failed create must not invalidate, got %v", cache.invalidated)
	}
}
