package repository_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"mangapress/database"
	"mangapress/internal/config"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "mangapress",
			"POSTGRES_PASSWORD": "mangapress",
			"POSTGRES_DB":       "mangapress",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{
		DatabaseURL: fmt.Sprintf("postgres://mangapress:mangapress@%s:%s/mangapress?sslmode=disable", host, port.Port()),
	}
	db, err := database.ConnectDB(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRepositories_Postgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	mangas := repository.NewMangaRepo(db)
	chapters := repository.NewChapterRepo(db)
	categories := repository.NewCategoryRepo(db)
	posts := repository.NewPostRepo(db)
	pending := repository.NewPendingDeletionRepo(db)
	refs := repository.NewMediaReferenceRepo(db)

	manga := &models.Manga{Title: "T", Author: "A", Description: "D", CoverImage: "https://storage.googleapis.com/bucket/manga-cover/x.jpg"}
	require.NoError(t, mangas.Create(ctx, manga))
	require.NotEmpty(t, manga.ID)

	t.Run("chapter numbers are unique per manga", func(t *testing.T) {
		first := &models.Chapter{MangaID: manga.ID, ChapterTitle: "One", ChapterNumber: 1, Files: []string{"https://storage.googleapis.com/bucket/chapter-manga/p1.jpg"}}
		require.NoError(t, chapters.CreateInManga(ctx, first))

		dup := &models.Chapter{MangaID: manga.ID, ChapterTitle: "Again", ChapterNumber: 1, Files: []string{"f"}}
		assert.ErrorIs(t, chapters.CreateInManga(ctx, dup), repository.ErrDuplicate)

		orphan := &models.Chapter{MangaID: "00000000-0000-0000-0000-000000000000", ChapterTitle: "X", ChapterNumber: 1, Files: []string{"f"}}
		assert.ErrorIs(t, chapters.CreateInManga(ctx, orphan), repository.ErrParentNotFound)

		got, err := mangas.GetByID(ctx, manga.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{first.ID}, got.ChapterIDs)
	})

	t.Run("concurrent creates of the same number admit one", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = chapters.CreateInManga(ctx, &models.Chapter{MangaID: manga.ID, ChapterTitle: "Race", ChapterNumber: 7, Files: []string{"f"}})
			}()
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, repository.ErrDuplicate)
			}
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("list carries chapter counts", func(t *testing.T) {
		list, err := mangas.ListWithCounts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(2), list[0].ChapterCount)
	})

	t.Run("category in use cannot be deleted", func(t *testing.T) {
		cat := &models.Category{Name: "Shonen"}
		require.NoError(t, categories.Create(ctx, cat))
		assert.ErrorIs(t, categories.Create(ctx, &models.Category{Name: "Shonen"}), repository.ErrDuplicate)

		post := &models.Post{Title: "P", Content: "C", Author: "A", Status: models.PostStatusPublished, Categories: []models.Category{*cat}, Tags: []string{"action"}}
		require.NoError(t, posts.Create(ctx, post))

		assert.ErrorIs(t, categories.DeleteUnused(ctx, cat.ID), repository.ErrInUse)
		_, err := categories.GetByID(ctx, cat.ID)
		require.NoError(t, err)

		usage, err := categories.ListWithUsage(ctx)
		require.NoError(t, err)
		require.Len(t, usage, 1)
		assert.Equal(t, int64(1), usage[0].ArticleCount)

		other := &models.Post{Title: "Q", Status: models.PostStatusDraft, Tags: []string{"action", "drama"}}
		require.NoError(t, posts.Create(ctx, other))
		rec, err := posts.Recommended(ctx, repository.RecommendedQuery{ExcludeID: post.ID, Tags: []string{"action"}, CategoryID: cat.ID, Limit: 3})
		require.NoError(t, err)
		require.Len(t, rec, 1)
		assert.Equal(t, other.ID, rec[0].ID)

		_, err = posts.Delete(ctx, post.ID)
		require.NoError(t, err)
		require.NoError(t, categories.DeleteUnused(ctx, cat.ID))
		_, err = categories.GetByID(ctx, cat.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("media documents", func(t *testing.T) {
		docs, err := refs.MediaDocuments(ctx)
		require.NoError(t, err)
		var urls []string
		for _, d := range docs {
			urls = append(urls, d.URLs...)
		}
		assert.Contains(t, urls, manga.CoverImage)
		assert.Contains(t, urls, "https://storage.googleapis.com/bucket/chapter-manga/p1.jpg")
	})

	t.Run("manga delete cascades", func(t *testing.T) {
		deleted, err := mangas.DeleteCascade(ctx, manga.ID)
		require.NoError(t, err)
		assert.Len(t, deleted.Chapters, 2)

		left, err := chapters.ListByManga(ctx, manga.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
		_, err = mangas.GetByID(ctx, manga.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = mangas.DeleteCascade(ctx, manga.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("pending deletions", func(t *testing.T) {
		now := time.Now().UTC()
		row := &models.PendingDeletion{URL: "u", Key: "blog/a.jpg", NextAttemptAt: now.Add(-time.Second)}
		require.NoError(t, pending.Add(ctx, row))

		due, err := pending.Due(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, due, 1)

		require.NoError(t, pending.MarkFailed(ctx, row.ID, 2, "boom", now.Add(time.Minute)))
		due, err = pending.Due(ctx, now, 10)
		require.NoError(t, err)
		assert.Empty(t, due)

		n, err := pending.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, pending.Remove(ctx, row.ID))
	})
}
