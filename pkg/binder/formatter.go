package binder

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const (
	relpath  = "relpath"
	mx       = "max"
	mn       = "min"
	required = "required"
)

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case relpath:
		return fmt.Sprintf("%q is not a valid path", field)
	case mx:
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("%q must be less than or equal to %s", field, err.Param())
		}
		return fmt.Sprintf("%q length must be less than or equal to %s %s", field, err.Param(), plural("character", err.Param()))
	case mn:
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
		}
		return fmt.Sprintf("%q length must be greater than or equal to %s %s", field, err.Param(), plural("character", err.Param()))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func isNumeric(kind reflect.Kind) bool {
	//exhaustive:ignore
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func plural(noun, count string) string {
	if count == "1" {
		return noun
	}
	return noun + "s"
}
