package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every Repository implementation runs this suite.

func shirtA() Fields {
	return Fields{
		Category:      CategoryTops,
		Colour:        "blue",
		UserID:        "user-123",
		Brand:         "Brooks Brothers",
		Size:          "M",
		ImageURL:      "https://example.com/shirt.jpg",
		PurchaseDate:  day(2024, 1, 15),
		PurchasePrice: 89.99,
	}
}

func shirtB() Fields {
	return Fields{
		Category:      CategoryTops,
		Colour:        "red",
		UserID:        "user-456",
		Brand:         "Nike",
		Size:          "L",
		ImageURL:      "https://example.com/shirt2.jpg",
		PurchaseDate:  day(2024, 2, 1),
		PurchasePrice: 49.99,
	}
}

func assertSameItem(t *testing.T, want, got Item) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Colour, got.Colour)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Brand, got.Brand)
	assert.Equal(t, want.Size, got.Size)
	assert.Equal(t, want.ImageURL, got.ImageURL)
	assert.True(t, want.PurchaseDate.Equal(got.PurchaseDate), "purchase_date %v != %v", want.PurchaseDate, got.PurchaseDate)
	assert.Equal(t, want.PurchasePrice, got.PurchasePrice)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %v != %v", want.UpdatedAt, got.UpdatedAt)
}

func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create assigns distinct ids and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			it, err := repo.Create(ctx, shirtA())
			require.NoError(t, err)
			require.NotEmpty(t, it.ID)
			assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
			seen[it.ID] = true
			assert.False(t, it.CreatedAt.IsZero())
			assert.True(t, it.CreatedAt.Equal(it.UpdatedAt))
		}
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)

		got, err := repo.FindOne(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assertSameItem(t, *created, *got)
	})

	t.Run("find one on unknown id is absent, not an error", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.FindOne(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("scenario sort and filter", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)
		b, err := repo.Create(ctx, shirtB())
		require.NoError(t, err)

		asc, err := repo.FindAll(ctx, Query{SortBy: SortByPurchaseDate, SortOrder: SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, ids(asc.Data))
		assert.Equal(t, 2, asc.Count)

		desc, err := repo.FindAll(ctx, Query{SortBy: SortByPurchaseDate, SortOrder: SortDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID, a.ID}, ids(desc.Data))

		shoes, err := repo.FindAll(ctx, Query{Category: CategoryShoes})
		require.NoError(t, err)
		assert.Empty(t, shoes.Data)
		assert.Equal(t, 0, shoes.Count)

		mine, err := repo.FindAll(ctx, Query{UserID: "user-456"})
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID}, ids(mine.Data))
	})

	t.Run("equal keys keep insertion order", func(t *testing.T) {
		repo := newRepo(t)
		var want []string
		for i := 0; i < 5; i++ {
			it, err := repo.Create(ctx, shirtA())
			require.NoError(t, err)
			want = append(want, it.ID)
		}
		for _, order := range []string{SortAsc, SortDesc} {
			for _, key := range []string{SortByPurchaseDate, SortByBrand, SortByPurchasePrice} {
				page, err := repo.FindAll(ctx, Query{SortBy: key, SortOrder: order})
				require.NoError(t, err)
				assert.Equal(t, want, ids(page.Data), "sort_by=%s sort_order=%s", key, order)
			}
		}
	})

	t.Run("pagination keeps the full count", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 5; i++ {
			_, err := repo.Create(ctx, shirtA())
			require.NoError(t, err)
		}
		page, err := repo.FindAll(ctx, Query{Limit: intPtr(2), Offset: intPtr(4)})
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)
		assert.Equal(t, 5, page.Count)

		none, err := repo.FindAll(ctx, Query{Limit: intPtr(0)})
		require.NoError(t, err)
		assert.Empty(t, none.Data)
		assert.Equal(t, 5, none.Count)
	})

	t.Run("update is partial", func(t *testing.T) {
		repo := newRepo(t)
		before, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)

		red := "red"
		after, err := repo.Update(ctx, before.ID, Patch{Colour: &red})
		require.NoError(t, err)

		assert.Equal(t, "red", after.Colour)
		assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
		assert.True(t, after.CreatedAt.Equal(before.CreatedAt))

		want := *before
		want.Colour = "red"
		want.UpdatedAt = after.UpdatedAt
		assertSameItem(t, want, *after)

		stored, err := repo.FindOne(ctx, before.ID)
		require.NoError(t, err)
		assertSameItem(t, *after, *stored)
	})

	t.Run("zero price is a real update", func(t *testing.T) {
		repo := newRepo(t)
		it, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)

		zero := 0.0
		updated, err := repo.Update(ctx, it.ID, Patch{PurchasePrice: &zero})
		require.NoError(t, err)
		assert.Equal(t, 0.0, updated.PurchasePrice)

		stored, err := repo.FindOne(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, stored.PurchasePrice)
	})

	t.Run("update unknown id", func(t *testing.T) {
		repo := newRepo(t)
		red := "red"
		_, err := repo.Update(ctx, "missing", Patch{Colour: &red})
		nf, ok := IsNotFound(err)
		require.True(t, ok, "expected not found, got %v", err)
		assert.Equal(t, "missing", nf.ID)
	})

	t.Run("remove then find and remove again", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)

		require.NoError(t, repo.Remove(ctx, a.ID))

		got, err := repo.FindOne(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		err = repo.Remove(ctx, a.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		nf, ok := IsNotFound(err)
		require.True(t, ok)
		assert.Equal(t, a.ID, nf.ID)

		page, err := repo.FindAll(ctx, Query{})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Count)
	})

	t.Run("returned items are snapshots", func(t *testing.T) {
		repo := newRepo(t)
		it, err := repo.Create(ctx, shirtA())
		require.NoError(t, err)
		it.Colour = "mutated"

		got, err := repo.FindOne(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, "blue", got.Colour)
	})
}
