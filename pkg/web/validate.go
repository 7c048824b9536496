package web

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/scienceol/chemstock/pkg/utils"
)

// RegisterValidators installs the custom binding tags used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cas", func(fl validator.FieldLevel) bool {
		return utils.ValidCAS(fl.Field().String())
	})
}
