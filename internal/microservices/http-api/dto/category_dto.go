package dto

import (
	"strings"

	"mangapress/internal/microservices/http-api/service"
)

// CategoryRequest is the body of category writes. ID is only read by
// PUT /api/category, where the id travels in the body.
type CategoryRequest struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (r CategoryRequest) CleanName() (string, error) {
	name := strings.TrimSpace(r.Name)
	if err := check(rule{"name", name, "required,max=120", service.MsgCategoryNameRequired}); err != nil {
		return "", err
	}
	return name, nil
}

// CheckID validates an id taken from the body or the query string.
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" {
		return service.Invalid("id", service.MsgIDRequired)
	}
	if !IsID(id) {
		return service.Invalid("id", service.MsgInvalidID)
	}
	return nil
}
