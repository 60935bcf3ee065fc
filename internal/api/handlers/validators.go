package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"homophone_dict/internal/models"
	"homophone_dict/internal/utils"
)

var registerOnce sync.Once

// RegisterValidators 註冊 english 與 role 兩個自訂 binding 標籤
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("english", func(fl validator.FieldLevel) bool {
			return utils.IsEnglishText(fl.Field().String())
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).Valid()
		})
	})
}
