package models

import "github.com/google/uuid"

// MediaDocument is the media held by one stored document: rich content to
// scan for embedded URLs plus URLs held directly (cover image, chapter files).
type MediaDocument struct {
	Content string
	URLs    []string
}

// assignID sets a new UUID if the ID is not already set.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
