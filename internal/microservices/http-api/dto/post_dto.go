package dto

import (
	"strings"

	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/service"
)

// PostRequest is the body of POST /api/blog and PUT /api/blog/:id.
type PostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Author     string   `json:"author"`
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// Command validates the request. Title, content and author are only
// mandatory for published posts; categories that are not ids are dropped.
func (r PostRequest) Command() (service.PostInput, error) {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = models.PostStatusDraft
	}
	if err := check(rule{"status", status, "oneof=draft published", service.MsgPostInvalidStatus}); err != nil {
		return service.PostInput{}, err
	}

	title, content, author := strings.TrimSpace(r.Title), r.Content, strings.TrimSpace(r.Author)
	if status == models.PostStatusPublished {
		if err := check(
			rule{"title", title, "required", service.MsgPostTitleRequired},
			rule{"content", strings.TrimSpace(content), "required", service.MsgPostContentRequired},
			rule{"author", author, "required", service.MsgPostAuthorRequired},
		); err != nil {
			return service.PostInput{}, err
		}
	}

	cats := make([]string, 0, len(r.Categories))
	for _, id := range r.Categories {
		if IsID(id) {
			cats = append(cats, id)
		}
	}

	return service.PostInput{
		Title:       title,
		Content:     content,
		Author:      author,
		Status:      status,
		CategoryIDs: cats,
		Tags:        cleanTags(r.Tags),
	}, nil
}

// RecommendedQuery is read from GET /api/blog/recommended.
type RecommendedQuery struct {
	Tags      string `form:"tags"`
	Category  string `form:"category"`
	CurrentID string `form:"currentId"`
}

func (q RecommendedQuery) Command() (service.RecommendedInput, error) {
	in := service.RecommendedInput{}
	if q.CurrentID != "" {
		if !IsID(q.CurrentID) {
			return in, service.Invalid("currentId", service.MsgInvalidID)
		}
		in.CurrentID = q.CurrentID
	}
	if q.Tags != "" {
		in.Tags = cleanTags(strings.Split(q.Tags, ","))
	}
	// an unusable category is ignored rather than rejected
	if IsID(q.Category) {
		in.CategoryID = q.Category
	}
	return in, nil
}
