package dto

import (
	"math"
	"strings"

	"mangapress/internal/microservices/http-api/service"
)

// CreateChapterRequest is the body of POST /api/chapter. The number is
// decoded as a float so 1.5 is rejected with a field message instead of a
// decoding error.
type CreateChapterRequest struct {
	MangaID       string   `json:"mangaId"`
	ChapterTitle  string   `json:"chapterTitle"`
	ChapterNumber *float64 `json:"chapterNumber"`
	Files         []string `json:"files"`
}

func validNumber(n *float64) bool {
	return n != nil && *n >= 1 && *n == math.Trunc(*n) && *n <= math.MaxInt32
}

func (r CreateChapterRequest) Command() (service.CreateChapterInput, error) {
	in := service.CreateChapterInput{
		MangaID:      strings.TrimSpace(r.MangaID),
		ChapterTitle: strings.TrimSpace(r.ChapterTitle),
		Files:        cleanTags(r.Files),
	}
	if !IsID(in.MangaID) {
		return in, service.Invalid("mangaId", service.MsgChapterMangaIDRequired)
	}
	if err := check(rule{"chapterTitle", in.ChapterTitle, "required", service.MsgChapterTitleRequired}); err != nil {
		return in, err
	}
	if !validNumber(r.ChapterNumber) {
		return in, service.Invalid("chapterNumber", service.MsgChapterNumberInvalid)
	}
	in.ChapterNumber = int(*r.ChapterNumber)
	if err := check(rule{"files", in.Files, "min=1", service.MsgChapterFilesRequired}); err != nil {
		return in, err
	}
	return in, nil
}

// UpdateChapterRequest is a partial update; absent fields are untouched.
type UpdateChapterRequest struct {
	ChapterTitle  *string   `json:"chapterTitle"`
	ChapterNumber *float64  `json:"chapterNumber"`
	Files         *[]string `json:"files"`
}

func (r UpdateChapterRequest) Command() (service.UpdateChapterInput, error) {
	var in service.UpdateChapterInput
	if r.ChapterTitle != nil {
		title := strings.TrimSpace(*r.ChapterTitle)
		if err := check(rule{"chapterTitle", title, "required", service.MsgChapterTitleEmpty}); err != nil {
			return in, err
		}
		in.ChapterTitle = &title
	}
	if r.ChapterNumber != nil {
		if !validNumber(r.ChapterNumber) {
			return in, service.Invalid("chapterNumber", service.MsgChapterNumberInvalid)
		}
		n := int(*r.ChapterNumber)
		in.ChapterNumber = &n
	}
	if r.Files != nil {
		files := cleanTags(*r.Files)
		if err := check(rule{"files", files, "min=1", service.MsgChapterFilesRequired}); err != nil {
			return in, err
		}
		in.Files = files
	}
	return in, nil
}

// ChapterListQuery is read from GET /api/chapter.
type ChapterListQuery struct {
	MangaID string `form:"mangaId"`
}

func (q ChapterListQuery) Check() error {
	if !IsID(q.MangaID) {
		return service.Invalid("mangaId", service.MsgChapterMangaIDRequired)
	}
	return nil
}
