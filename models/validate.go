package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// global validator instance; struct metadata is cached per type.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct carrying validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.StructNamespace(), e.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// foldName canonicalizes a list name for case-insensitive comparison.
func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether two list names collide case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
