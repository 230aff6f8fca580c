package dto

import (
	"strings"

	"mangapress/internal/microservices/http-api/service"
)

// MangaRequest is the body of POST /api/manga and PUT /api/manga/:id.
type MangaRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

func (r MangaRequest) fields() (service.MangaInput, error) {
	in := service.MangaInput{
		Title:       strings.TrimSpace(r.Title),
		Author:      strings.TrimSpace(r.Author),
		Description: strings.TrimSpace(r.Description),
		CoverImage:  strings.TrimSpace(r.CoverImage),
	}
	err := check(
		rule{"title", in.Title, "required", service.MsgMangaTitleRequired},
		rule{"author", in.Author, "required", service.MsgMangaAuthorRequired},
		rule{"description", in.Description, "required", service.MsgMangaDescRequired},
	)
	return in, err
}

// CreateCommand requires every field, the cover being an http(s) URL.
func (r MangaRequest) CreateCommand() (service.MangaInput, error) {
	in, err := r.fields()
	if err != nil {
		return in, err
	}
	if err := check(
		rule{"coverImage", in.CoverImage, "required", service.MsgMangaCoverRequired},
		rule{"coverImage", in.CoverImage, "http_url", service.MsgMangaCoverInvalidURL},
	); err != nil {
		return in, err
	}
	return in, nil
}

// UpdateCommand is CreateCommand with an optional cover.
func (r MangaRequest) UpdateCommand() (service.MangaInput, error) {
	in, err := r.fields()
	if err != nil {
		return in, err
	}
	if in.CoverImage != "" {
		if err := check(rule{"coverImage", in.CoverImage, "http_url", service.MsgMangaCoverInvalidURL}); err != nil {
			return in, err
		}
	}
	return in, nil
}
