package dto

import (
	"strings"

	"mangapress/internal/microservices/http-api/service"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// rule is one boundary check; the first failing rule is reported.
type rule struct {
	field string
	value any
	tag   string
	msg   string
}

func check(rules ...rule) error {
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			return service.Invalid(r.field, r.msg)
		}
	}
	return nil
}

// IsID reports whether s has the shape of a stored identifier.
func IsID(s string) bool {
	return validate.Var(s, "required,uuid") == nil
}

// cleanTags trims tags and drops empty ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var errInvalidGrace = service.Invalid("olderThan", "Durée invalide")
