package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/orlogbook/orlog-api/internal/model"
)

// RegisterCustomRules installs domain-specific rules into gin's binding
// validator so request DTOs can use them in binding tags.
func RegisterCustomRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("phone", phoneRule)
}

func phoneRule(fl validator.FieldLevel) bool {
	return model.ValidPhone(fl.Field().String())
}
