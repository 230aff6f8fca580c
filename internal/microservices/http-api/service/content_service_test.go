package service

import (
	"context"
	"errors"
	"testing"

	"mangapress/internal/cache"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bucketURL = "https://storage.googleapis.com/bucket/"

func assertServiceError(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, msg, svcErr.Message)
}

func TestPostService_UpdateReconcilesAfterSave(t *testing.T) {
	posts := new(MockPostRepository)
	cats := new(MockCategoryRepository)
	media := new(MockMedia)
	svc := NewPostService(posts, cats, media, cache.Noop{}, discardLog)
	ctx := context.Background()

	existing := &models.Post{ID: "p1", Title: "Old", Content: `<img src="` + bucketURL + `blog/a.jpg">`, Status: models.PostStatusDraft}
	posts.On("GetByID", ctx, "p1").Return(existing, nil)
	cats.On("FindByIDs", ctx, []string{"c1"}).Return([]models.Category{{ID: "c1", Name: "News"}}, nil)

	var saved bool
	posts.On("Update", ctx, mock.AnythingOfType("*models.Post")).
		Run(func(mock.Arguments) { saved = true }).
		Return(nil)
	media.On("Reconcile", mock.Anything, `<img src="`+bucketURL+`blog/a.jpg">`, "<p>new</p>").
		Run(func(mock.Arguments) { assert.True(t, saved, "reconcile runs after the update is saved") }).
		Return([]string{bucketURL + "blog/a.jpg"})

	got, err := svc.Update(ctx, "p1", PostInput{
		Title: "New", Content: "<p>new</p>", Author: "A",
		Status: models.PostStatusPublished, CategoryIDs: []string{"c1"}, Tags: []string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	require.Len(t, got.Categories, 1)
	posts.AssertExpectations(t)
	media.AssertExpectations(t)
}

func TestPostService_UpdateUnknownPost(t *testing.T) {
	posts := new(MockPostRepository)
	media := new(MockMedia)
	svc := NewPostService(posts, new(MockCategoryRepository), media, cache.Noop{}, discardLog)

	posts.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.Update(context.Background(), "missing", PostInput{})
	assertServiceError(t, err, ErrNotFound, MsgPostNotFound)
	media.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_DeleteReleasesContentMedia(t *testing.T) {
	posts := new(MockPostRepository)
	media := new(MockMedia)
	svc := NewPostService(posts, new(MockCategoryRepository), media, cache.Noop{}, discardLog)

	content := `<img src="` + bucketURL + `blog/a.jpg">`
	posts.On("Delete", mock.Anything, "p1").Return(&models.Post{ID: "p1", Content: content}, nil)
	media.On("ExtractReferences", content).Return([]string{bucketURL + "blog/a.jpg"})
	media.On("DeleteAll", mock.Anything, []string{bucketURL + "blog/a.jpg"}).Return()

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	media.AssertExpectations(t)
}

func TestPostService_Recommended(t *testing.T) {
	posts := new(MockPostRepository)
	svc := NewPostService(posts, new(MockCategoryRepository), new(MockMedia), cache.Noop{}, discardLog)

	q := repository.RecommendedQuery{ExcludeID: "p1", Tags: []string{"action"}, Limit: 3}
	posts.On("Recommended", mock.Anything, q).Return([]models.Post{{ID: "p2"}}, nil)

	got, err := svc.Recommended(context.Background(), RecommendedInput{CurrentID: "p1", Tags: []string{"action"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, cache.Noop{}, discardLog)

	repo.On("DeleteUnused", mock.Anything, "c1").Return(repository.ErrInUse)
	repo.On("DeleteUnused", mock.Anything, "c2").Return(repository.ErrNotFound)
	repo.On("DeleteUnused", mock.Anything, "c3").Return(nil)

	assertServiceError(t, svc.Delete(context.Background(), "c1"), ErrConflict, MsgCategoryInUse)
	assertServiceError(t, svc.Delete(context.Background(), "c2"), ErrNotFound, MsgCategoryNotFound)
	assert.NoError(t, svc.Delete(context.Background(), "c3"))
}

func TestCategoryService_CreateAndRename(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, cache.Noop{}, discardLog)
	ctx := context.Background()

	repo.On("NameTaken", ctx, "Shonen", "").Return(true, nil).Once()
	_, err := svc.Create(ctx, "  Shonen ")
	assertServiceError(t, err, ErrConflict, MsgCategoryExists)

	repo.On("NameTaken", ctx, "Seinen", "").Return(false, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*models.Category")).Return(nil).Once()
	c, err := svc.Create(ctx, "Seinen")
	require.NoError(t, err)
	assert.Equal(t, "Seinen", c.Name)

	repo.On("GetByID", ctx, "c1").Return(&models.Category{ID: "c1", Name: "Seinen"}, nil)
	repo.On("NameTaken", ctx, "Shonen", "c1").Return(true, nil).Once()
	_, err = svc.Rename(ctx, "c1", "Shonen")
	assertServiceError(t, err, ErrConflict, MsgCategoryNameTaken)

	repo.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound)
	_, err = svc.Rename(ctx, "nope", "X")
	assertServiceError(t, err, ErrNotFound, MsgCategoryNotFound)
	repo.AssertExpectations(t)
}

func TestMangaService_DeleteCascadesMedia(t *testing.T) {
	repo := new(MockMangaRepository)
	media := new(MockMedia)
	svc := NewMangaService(repo, media, cache.Noop{}, discardLog)

	deleted := &models.Manga{
		ID:         "m1",
		CoverImage: bucketURL + "manga-cover/c.jpg",
		Chapters: []models.Chapter{
			{ID: "ch1", Files: []string{bucketURL + "chapter-manga/1.jpg", bucketURL + "chapter-manga/2.jpg"}},
			{ID: "ch2", Files: []string{bucketURL + "chapter-manga/3.jpg"}},
		},
	}
	repo.On("DeleteCascade", mock.Anything, "m1").Return(deleted, nil)
	media.On("DeleteAll", mock.Anything, []string{
		bucketURL + "manga-cover/c.jpg",
		bucketURL + "chapter-manga/1.jpg",
		bucketURL + "chapter-manga/2.jpg",
		bucketURL + "chapter-manga/3.jpg",
	}).Return()

	require.NoError(t, svc.Delete(context.Background(), "m1"))
	media.AssertExpectations(t)

	repo.On("DeleteCascade", mock.Anything, "gone").Return(nil, repository.ErrNotFound)
	assertServiceError(t, svc.Delete(context.Background(), "gone"), ErrNotFound, MsgMangaNotFound)
}

func TestMangaService_UpdateReplacesCover(t *testing.T) {
	repo := new(MockMangaRepository)
	media := new(MockMedia)
	svc := NewMangaService(repo, media, cache.Noop{}, discardLog)

	oldCover := bucketURL + "manga-cover/old.jpg"
	newCover := bucketURL + "manga-cover/new.jpg"
	repo.On("GetByID", mock.Anything, "m1").Return(&models.Manga{ID: "m1", CoverImage: oldCover}, nil)
	media.On("PromoteOne", mock.Anything, newCover, MediaTypeMangaCover).Return(newCover, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.Manga")).Return(nil)
	media.On("ReconcileRefs", mock.Anything, []string{oldCover}, []string{newCover}).Return([]string{oldCover})

	got, err := svc.Update(context.Background(), "m1", MangaInput{Title: "T", Author: "A", Description: "D", CoverImage: newCover})
	require.NoError(t, err)
	assert.Equal(t, newCover, got.CoverImage)
	media.AssertExpectations(t)
}

func TestMangaService_UpdateKeepsCoverWhenOmitted(t *testing.T) {
	repo := new(MockMangaRepository)
	media := new(MockMedia)
	svc := NewMangaService(repo, media, cache.Noop{}, discardLog)

	cover := bucketURL + "manga-cover/keep.jpg"
	repo.On("GetByID", mock.Anything, "m1").Return(&models.Manga{ID: "m1", CoverImage: cover}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.Manga")).Return(nil)

	got, err := svc.Update(context.Background(), "m1", MangaInput{Title: "T2", Author: "A", Description: "D"})
	require.NoError(t, err)
	assert.Equal(t, cover, got.CoverImage)
	assert.Equal(t, "T2", got.Title)
	media.AssertNotCalled(t, "ReconcileRefs", mock.Anything, mock.Anything, mock.Anything)
}

func TestChapterService_CreateOutcomes(t *testing.T) {
	repo := new(MockChapterRepository)
	media := new(MockMedia)
	svc := NewChapterService(repo, media, cache.Noop{}, discardLog)
	ctx := context.Background()

	files := []string{bucketURL + "chapter-manga/1.jpg"}

	repo.On("CreateInManga", ctx, mock.MatchedBy(func(ch *models.Chapter) bool { return ch.MangaID == "missing" })).
		Return(repository.ErrParentNotFound)
	_, err := svc.Create(ctx, CreateChapterInput{MangaID: "missing", ChapterTitle: "One", ChapterNumber: 1, Files: files})
	assertServiceError(t, err, ErrNotFound, MsgMangaNotFound)

	repo.On("CreateInManga", ctx, mock.MatchedBy(func(ch *models.Chapter) bool { return ch.MangaID == "m1" && ch.ChapterNumber == 1 })).
		Return(repository.ErrDuplicate)
	_, err = svc.Create(ctx, CreateChapterInput{MangaID: "m1", ChapterTitle: "One", ChapterNumber: 1, Files: files})
	assertServiceError(t, err, ErrConflict, MsgChapterNumberTaken)

	repo.On("CreateInManga", ctx, mock.MatchedBy(func(ch *models.Chapter) bool { return ch.ChapterNumber == 2 })).
		Return(nil)
	media.On("Promote", ctx, files, MediaTypeChapter).Return(files, nil)
	ch, err := svc.Create(ctx, CreateChapterInput{MangaID: "m1", ChapterTitle: "Two", ChapterNumber: 2, Files: files})
	require.NoError(t, err)
	assert.Equal(t, 2, ch.ChapterNumber)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChapterService_CreatePromotesStagedFiles(t *testing.T) {
	repo := new(MockChapterRepository)
	media := new(MockMedia)
	svc := NewChapterService(repo, media, cache.Noop{}, discardLog)
	ctx := context.Background()

	staged := []string{bucketURL + "temp/chapter-manga/1.jpg"}
	final := []string{bucketURL + "chapter-manga/1.jpg"}
	repo.On("CreateInManga", ctx, mock.AnythingOfType("*models.Chapter")).Return(nil)
	media.On("Promote", ctx, staged, MediaTypeChapter).Return(final, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Chapter")).Return(nil)

	ch, err := svc.Create(ctx, CreateChapterInput{MangaID: "m1", ChapterTitle: "One", ChapterNumber: 1, Files: staged})
	require.NoError(t, err)
	assert.Equal(t, final, []string(ch.Files))
	repo.AssertExpectations(t)
}

func TestChapterService_PartialUpdate(t *testing.T) {
	repo := new(MockChapterRepository)
	media := new(MockMedia)
	svc := NewChapterService(repo, media, cache.Noop{}, discardLog)
	ctx := context.Background()

	oldFiles := []string{bucketURL + "chapter-manga/1.jpg", bucketURL + "chapter-manga/2.jpg"}
	newFiles := []string{bucketURL + "chapter-manga/2.jpg"}
	repo.On("GetByID", ctx, "ch1").Return(&models.Chapter{ID: "ch1", MangaID: "m1", ChapterTitle: "One", ChapterNumber: 1, Files: oldFiles}, nil)
	media.On("Promote", ctx, newFiles, MediaTypeChapter).Return(newFiles, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Chapter")).Return(nil)
	media.On("ReconcileRefs", mock.Anything, oldFiles, newFiles).Return([]string{oldFiles[0]})

	ch, err := svc.Update(ctx, "ch1", UpdateChapterInput{Files: newFiles})
	require.NoError(t, err)
	assert.Equal(t, "One", ch.ChapterTitle, "absent fields are kept")
	assert.Equal(t, 1, ch.ChapterNumber)
	media.AssertExpectations(t)
}

func TestChapterService_UpdateNumberClash(t *testing.T) {
	repo := new(MockChapterRepository)
	svc := NewChapterService(repo, new(MockMedia), cache.Noop{}, discardLog)
	ctx := context.Background()

	repo.On("GetByID", ctx, "ch1").Return(&models.Chapter{ID: "ch1", MangaID: "m1", ChapterNumber: 1}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Chapter")).Return(repository.ErrDuplicate)

	two := 2
	_, err := svc.Update(ctx, "ch1", UpdateChapterInput{ChapterNumber: &two})
	assertServiceError(t, err, ErrConflict, MsgChapterNumberTaken)
}

func TestChapterService_DeleteReleasesFiles(t *testing.T) {
	repo := new(MockChapterRepository)
	media := new(MockMedia)
	svc := NewChapterService(repo, media, cache.Noop{}, discardLog)

	files := []string{bucketURL + "chapter-manga/1.jpg"}
	repo.On("Delete", mock.Anything, "ch1").Return(&models.Chapter{ID: "ch1", Files: files}, nil)
	media.On("DeleteAll", mock.Anything, files).Return()
	repo.On("Delete", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "ch1"))
	assertServiceError(t, svc.Delete(context.Background(), "gone"), ErrNotFound, MsgChapterNotFound)
	media.AssertExpectations(t)
}
