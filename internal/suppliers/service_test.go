package suppliers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/procura-platform/procura/internal/platform/httpx"
)

type memoryRepo struct {
	byID   map[int64]Supplier
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[int64]Supplier)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	var all []Supplier
	for _, s := range r.byID {
		if filters.Search != "" &&
			!strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) &&
			!strings.Contains(strings.ToLower(s.Code), strings.ToLower(filters.Search)) {
			continue
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	if filters.Limit > 0 {
		start := (filters.Page - 1) * filters.Limit
		if start > len(all) {
			start = len(all)
		}
		end := start + filters.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return Supplier{}, httpx.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	r.nextID++
	supplier.ID = r.nextID
	supplier.CreatedAt = time.Now()
	supplier.UpdatedAt = supplier.CreatedAt
	r.byID[supplier.ID] = supplier
	return supplier, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, supplier Supplier) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	supplier.ID = id
	r.byID[id] = supplier
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreateRequiresCodeAndName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Supplier{Name: "Acme"})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.Create(ctx, Supplier{Code: "ACM"})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	created, err := svc.Create(ctx, Supplier{Code: "ACM", Name: "Acme"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestListAppliesSearchAndPaging(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, name := range []string{"Acme Metals", "Borealis Parts", "Acme Paper"} {
		_, err := svc.Create(ctx, Supplier{Code: strings.ToUpper(name[:3]), Name: name})
		require.NoError(t, err)
	}

	matches, total, err := svc.List(ctx, ListFilters{Search: "acme", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, matches, 2)

	page, total, err := svc.List(ctx, ListFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 1)
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 0)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestUpdateMissingSupplier(t *testing.T) {
	svc := NewService(newMemoryRepo())

	err := svc.Update(context.Background(), 42, Supplier{Code: "X", Name: "Y"})
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}
