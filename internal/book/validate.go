package book

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"booklib/internal/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("isbn", validateISBN)
}

// validateISBN accepts 10 or 13 digit ISBNs, with dashes and spaces allowed.
func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		matched, _ := regexp.MatchString(`^\d{9}[\dX]$`, isbn)
		return matched
	}
	if len(isbn) == 13 {
		matched, _ := regexp.MatchString(`^\d{13}$`, isbn)
		return matched
	}
	return false
}

func validatePayload(p bookPayload) []httpx.ErrorDetail {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	for _, fe := range err.(validator.ValidationErrors) {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "gte", "lte":
			message = fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
