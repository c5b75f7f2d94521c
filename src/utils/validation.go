package utils

import (
	"errors"
	"io"
	"maps"
	"regexp"
	"slices"
	"sync"

	"cityfood/src/errs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	enLocales "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

var (
	translator    ut.Translator
	validatorOnce sync.Once
	phonePattern  = regexp.MustCompile(`^\+?[0-9][0-9 .-]{5,19}$`)
)

func addCustomTag(v *validator.Validate, tag string, validate func(field string) bool, translation string) {
	v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		fieldStr := fl.Field().String()
		return validate(fieldStr)
	})

	v.RegisterTranslation(tag, translator, func(ut ut.Translator) error {
		return ut.Add(tag, translation, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

// InitValidator hooks english translations and the custom tags into gin's
// validator. Safe to call more than once.
func InitValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		en := enLocales.New()
		uni := ut.New(en, en)

		translator, _ = uni.GetTranslator("en")
		enTranslations.RegisterDefaultTranslations(v, translator)

		addCustomTag(v, "phone", phonePattern.MatchString,
			"{0} must be a phone number (digits, spaces, dots or dashes, optional leading +).")

		zap.L().Info("Validator initialized")
	})
}

func checkValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		// sorted so the joined details are stable between requests
		translated := slices.Sorted(maps.Values(ve.Translate(translator)))
		return errs.Validations(translated)
	} else if errors.Is(err, io.EOF) {
		return errs.Validation("Request body is required")
	}

	return errs.Validation("Failed to parse and decode request body")
}

func ValidateJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return checkValidationErrors(err)
	}
	return nil
}

// ValidateForm picks the binding from Content-Type, so it covers JSON bodies
// as well as multipart forms.
func ValidateForm(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return checkValidationErrors(err)
	}
	return nil
}

func ValidateQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return checkValidationErrors(err)
	}
	return nil
}
