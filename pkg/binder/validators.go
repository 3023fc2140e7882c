package binder

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// relativePathValidator rejects path params containing NUL bytes, which no
// filesystem accepts. Traversal through ".." is still allowed here;
// containment is decided by the resolver, which knows the root.
func relativePathValidator(fl validator.FieldLevel) bool {
	return !strings.ContainsRune(fl.Field().String(), 0)
}
