package service

// Commands are built by the HTTP layer after validation; services trust
// their shape and only enforce cross-entity rules.

type PostInput struct {
	Title       string
	Content     string
	Author      string
	Status      string
	CategoryIDs []string
	Tags        []string
}

type RecommendedInput struct {
	CurrentID  string
	Tags       []string
	CategoryID string
}

type MangaInput struct {
	Title       string
	Author      string
	Description string
	// CoverImage may be empty on update to keep the current cover.
	CoverImage string
}

type CreateChapterInput struct {
	MangaID       string
	ChapterTitle  string
	ChapterNumber int
	Files         []string
}

// UpdateChapterInput is a partial update: nil fields are left unchanged.
type UpdateChapterInput struct {
	ChapterTitle  *string
	ChapterNumber *int
	Files         []string
}
