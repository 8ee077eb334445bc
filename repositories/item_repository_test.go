package repositories

import (
	"context"
	"testing"
	"time"

	"pixelnote/apperr"
	"pixelnote/models"
	"pixelnote/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newItemRepo(t *testing.T, variant models.Variant) (IItemRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewItemRepository(db, variant), db
}

func TestItemRepository_CreateAndFindById(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantReminder)

	created, err := repo.Create(ctx, models.Item{UserID: 1, Title: "Dentist", Content: "10am", Date: strPtr("2025-03-01")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, models.VariantReminder, created.Type)

	got, err := repo.FindById(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.UserID, got.UserID)
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, "10am", got.Content)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2025-03-01", *got.Date)
	assert.Nil(t, got.Image)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, models.VariantReminder, got.Type)
}

func TestItemRepository_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantNote)

	created, err := repo.Create(ctx, models.Item{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "", created.Title)
	assert.Equal(t, "", created.Content)
	assert.Nil(t, created.Date)
	assert.Nil(t, created.Image)
}

func TestItemRepository_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantNote)

	owned, err := repo.Create(ctx, models.Item{UserID: 1, Title: "mine"})
	require.NoError(t, err)

	_, err = repo.FindById(ctx, owned.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.Update(ctx, owned.ID, 2, map[string]interface{}{"title": "stolen"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.Delete(ctx, owned.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := repo.FindAll(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Untouched for the real owner
	got, err := repo.FindById(ctx, owned.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestItemRepository_MissingAndForeignAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantNote)

	owned, err := repo.Create(ctx, models.Item{UserID: 1})
	require.NoError(t, err)

	_, foreignErr := repo.FindById(ctx, owned.ID, 2)
	_, missingErr := repo.FindById(ctx, owned.ID+100, 2)
	assert.Equal(t, missingErr, foreignErr)
}

func TestItemRepository_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantDrawing)

	item, err := repo.Create(ctx, models.Item{UserID: 1, Image: strPtr("data:image/png;base64,AAAA")})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, item.ID, 1))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID, 1), apperr.ErrNotFound)

	_, err = repo.FindById(ctx, item.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestItemRepository_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantReminder)

	item, err := repo.Create(ctx, models.Item{UserID: 1, Title: "old", Content: "body", Date: strPtr("2025-01-01")})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, item.ID, 1, map[string]interface{}{"title": "X"})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "body", updated.Content)
	require.NotNil(t, updated.Date)
	assert.Equal(t, "2025-01-01", *updated.Date)
	assert.True(t, item.CreatedAt.Equal(updated.CreatedAt))
}

func TestItemRepository_UpdateEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantNote)

	item, err := repo.Create(ctx, models.Item{UserID: 1})
	require.NoError(t, err)

	_, err = repo.Update(ctx, item.ID, 1, map[string]interface{}{})
	assert.ErrorIs(t, err, apperr.ErrNoOpUpdate)
}

func TestItemRepository_FindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepo(t, models.VariantNote)

	var ids []uint
	for _, title := range []string{"first", "second", "third"} {
		item, err := repo.Create(ctx, models.Item{UserID: 1, Title: title})
		require.NoError(t, err)
		ids = append(ids, item.ID)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := repo.Create(ctx, models.Item{UserID: 2, Title: "other"})
	require.NoError(t, err)

	list, err := repo.FindAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{list[0].ID, list[1].ID, list[2].ID})
	for _, item := range list {
		assert.Equal(t, models.VariantNote, item.Type)
	}
}

func TestItemRepository_FindAllEmpty(t *testing.T) {
	repo, _ := newItemRepo(t, models.VariantNote)

	list, err := repo.FindAll(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestItemRepository_CollectionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	notes := NewItemRepository(db, models.VariantNote)
	reminders := NewItemRepository(db, models.VariantReminder)

	note, err := notes.Create(ctx, models.Item{UserID: 1, Title: "note"})
	require.NoError(t, err)

	list, err := reminders.FindAll(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Ids are per collection, so the same id may name a different row
	_, err = reminders.FindById(ctx, note.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestItemRepository_StoreUnavailable(t *testing.T) {
	repo, db := newItemRepo(t, models.VariantNote)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindAll(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)

	_, err = repo.Create(context.Background(), models.Item{UserID: 1})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}
