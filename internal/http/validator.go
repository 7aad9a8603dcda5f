package http

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shelfapi/internal/entity"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("shelf_status", validateShelfStatus)
}

func validateShelfStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case entity.StatusToRead, entity.StatusInProgress, entity.StatusRead, entity.StatusHidden:
		return true
	}
	return false
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors []ValidationError
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must have at least %s items", field, param)
		case "max":
			message = fmt.Sprintf("%s must have at most %s items", field, param)
		case "shelf_status":
			message = fmt.Sprintf("%s must be one of TO_READ, IN_PROGRESS, READ, HIDDEN", field)
		case "gte", "lte":
			message = fmt.Sprintf("%s must be between %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: message,
		})
	}

	return errors
}
