package handlers

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorsOnce sync.Once

	// language tags accepted by the TTS backend: "en", "hi", "zh-CN", "pt-BR"
	langPattern     = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)
)

// registerValidators adds the custom binding tags used by request DTOs.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
			return langPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}
