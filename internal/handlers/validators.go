package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// RegisterCustomValidators wires the domain enum validators into gin's
// binding engine. Must run before the first request is bound.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.ValidCategory(domain.Category(fl.Field().String()))
	})
	_ = v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
		t := domain.TransactionType(fl.Field().String())
		return t == domain.Income || t == domain.Expense
	})
}
