package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"coachtrack/internal/batch"
)

// RegisterValidations installs the custom binding rules on gin's validator
// engine. Call once at startup, before any route binds a request.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not validator/v10")
	}
	return v.RegisterValidation("coursetype", func(fl validator.FieldLevel) bool {
		return batch.ValidCourseType(fl.Field().String())
	})
}
