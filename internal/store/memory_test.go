package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/virajo/backoffice/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBlog(slug string) *models.BlogPost {
	b := models.NewBlogPost()
	b.Title = "Title " + slug
	b.Content = "hello"
	b.Slug = slug
	b.Image = "/img/" + slug + ".png"
	return b
}

func TestMemoryCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.BlogPost](blogOptions)

	b := newBlog("first")
	require.NoError(t, c.Create(ctx, b))
	require.False(t, b.ID.IsZero())
	require.False(t, b.CreatedAt.IsZero())
	require.Equal(t, "Virajo Team", b.Author)

	got, err := c.Get(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "hello", got.Content)

	updated, err := c.Update(ctx, b.ID.Hex(), bson.M{"content": "new"})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Content)
	require.Equal(t, "first", updated.Slug)

	got2, err := c.Get(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "new", got2.Content)

	deleted, err := c.Delete(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, b.ID, deleted.ID)

	_, err = c.Get(ctx, b.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.BlogPost](blogOptions)
	b := newBlog("copy")
	require.NoError(t, c.Create(ctx, b))

	b.Content = "mutated after create"
	got, err := c.Get(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "hello", got.Content)
}

func TestMemoryCollectionNotFound(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.BlogPost](blogOptions)

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id", ""} {
		_, err := c.Get(ctx, id)
		require.ErrorIs(t, err, ErrNotFound, "get %q", id)
		_, err = c.Update(ctx, id, bson.M{"title": "x"})
		require.ErrorIs(t, err, ErrNotFound, "update %q", id)
		_, err = c.Delete(ctx, id)
		require.ErrorIs(t, err, ErrNotFound, "delete %q", id)
	}
}

func TestMemoryCollectionListNewestFirstWithDefaultLimit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.ContactSubmission](contactOptions)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		rec := &models.ContactSubmission{
			Name: "n", Contact: "1", Email: "a@b.co", Company: "c", Message: "m",
			Status:    models.ContactNew,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, c.Create(ctx, rec))
	}

	list, err := c.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, DefaultLimit)
	for i := 1; i < len(list); i++ {
		require.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt))
	}
	require.Equal(t, base.Add(14*time.Hour), list[0].CreatedAt)

	list, err = c.List(ctx, ListOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestMemoryCollectionFilter(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.JobListing](jobOptions)
	active := models.NewJobListing()
	active.Title, active.Department, active.Experience, active.Description = "Go dev", "eng", "3y", "d"
	active.Deadline = time.Now().Add(24 * time.Hour)
	inactive := *active
	inactive.IsActive = false
	require.NoError(t, c.Create(ctx, active))
	require.NoError(t, c.Create(ctx, &inactive))

	list, err := c.List(ctx, ListOptions{Filter: bson.M{"isActive": true}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, active.ID, list[0].ID)

	one, err := c.FindOne(ctx, bson.M{"isActive": false})
	require.NoError(t, err)
	require.Equal(t, inactive.ID, one.ID)
}

func TestMemoryCollectionValidation(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.BlogPost](blogOptions)

	err := c.Create(ctx, &models.BlogPost{Title: "only a title"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "content")
	require.Contains(t, verr.Fields, "slug")
	require.Contains(t, verr.Fields, "image")

	list, err := c.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMemoryCollectionUpdateValidatesResult(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.ContactSubmission](contactOptions)
	rec := &models.ContactSubmission{Name: "n", Contact: "1", Email: "a@b.co", Company: "c", Message: "m", Status: models.ContactNew}
	require.NoError(t, c.Create(ctx, rec))

	_, err := c.Update(ctx, rec.ID.Hex(), bson.M{"status": "Archived"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "status")

	got, err := c.Update(ctx, rec.ID.Hex(), bson.M{"status": "In Progress"})
	require.NoError(t, err)
	require.Equal(t, models.ContactInProgress, got.Status)
}

func TestMemoryCollectionUniqueSlug(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.BlogPost](blogOptions)
	require.NoError(t, c.Create(ctx, newBlog("same")))

	err := c.Create(ctx, newBlog("same"))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "slug")

	other := newBlog("other")
	require.NoError(t, c.Create(ctx, other))
	_, err = c.Update(ctx, other.ID.Hex(), bson.M{"slug": "same"})
	require.True(t, errors.As(err, &verr))

	// re-saving its own slug is fine
	_, err = c.Update(ctx, other.ID.Hex(), bson.M{"slug": "other"})
	require.NoError(t, err)
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := ParseID(oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid, got)

	_, err = ParseID("123")
	require.ErrorIs(t, err, ErrNotFound)
}
