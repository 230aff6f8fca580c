package dto

import "time"

// Wire shapes of the mangapress API as the CLI sees them.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MangaRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

type MangaResponse struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	CoverImage   string    `json:"coverImage"`
	Chapters     []string  `json:"chapters"`
	ChapterCount int64     `json:"chapterCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CategoryResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"articleCount"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type SweepRequest struct {
	Prefix    string `json:"prefix,omitempty"`
	OlderThan string `json:"olderThan,omitempty"`
	DryRun    bool   `json:"dryRun"`
}

type SweepResponse struct {
	Removed []string `json:"removed"`
	DryRun  bool     `json:"dryRun"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
