package handlers

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/matheusvidal21/CoFi/pkg/utils"
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

func ValidateEmail(email string) bool {
	return emailRegexp.MatchString(email)
}
