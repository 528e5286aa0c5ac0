// Package validation runs the field-level rule sets of commands before any
// storage access and reports every violated field with a localized message.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Supported locales.
const (
	LocaleEN   = "en"
	LocalePtBR = "pt_BR"
)

// CPFChecker validates the format and check digits of a CPF.
type CPFChecker interface {
	IsValid(cpf string) bool
}

// CPFCheckerFunc adapts a function to CPFChecker.
type CPFCheckerFunc func(string) bool

// IsValid implements CPFChecker.
func (f CPFCheckerFunc) IsValid(cpf string) bool { return f(cpf) }

type localeKey struct{}

// WithLocale stores the preferred message locale in ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}

// Validator validates command structs using their `validate` tags.
type Validator struct {
	validate      *validator.Validate
	uni           *ut.UniversalTranslator
	defaultLocale string
}

// New creates a Validator with the marketplace's custom rules registered.
func New(cpf CPFChecker, defaultLocale string) (*Validator, error) {
	if cpf == nil {
		return nil, errors.New("validation: cpf checker is required")
	}
	if defaultLocale == "" {
		defaultLocale = LocaleEN
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, pt_BR.New())

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]validator.Func{
		"hhmm":      isTimeOfDay,
		"timeafter": isTimeAfter,
		"cpf": func(fl validator.FieldLevel) bool {
			return cpf.IsValid(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s rule: %w", tag, err)
		}
	}

	if err := registerLocale(v, uni, LocaleEN, en_translations.RegisterDefaultTranslations, customMessagesEN); err != nil {
		return nil, err
	}
	if err := registerLocale(v, uni, LocalePtBR, ptbr_translations.RegisterDefaultTranslations, customMessagesPtBR); err != nil {
		return nil, err
	}

	return &Validator{validate: v, uni: uni, defaultLocale: defaultLocale}, nil
}

// MustNew is like New but panics on error.
func MustNew(cpf CPFChecker, defaultLocale string) *Validator {
	v, err := New(cpf, defaultLocale)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks cmd and returns a *shared.ValidationErrors listing every
// violated field, or nil.
func (v *Validator) Validate(ctx context.Context, cmd any) error {
	err := v.validate.StructCtx(ctx, cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	trans := v.translator(LocaleFromContext(ctx))
	fields := make([]shared.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, shared.ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(trans),
		})
	}
	return shared.NewValidationErrors(fields...)
}

func (v *Validator) translator(locale string) ut.Translator {
	if locale != "" {
		if trans, found := v.uni.GetTranslator(locale); found {
			return trans
		}
	}
	trans, _ := v.uni.GetTranslator(v.defaultLocale)
	return trans
}

// =============================================================================
// Custom rules
// =============================================================================

func isTimeOfDay(fl validator.FieldLevel) bool {
	return schedule.IsTimeOfDay(fl.Field().String())
}

// isTimeAfter compares two "HH:MM" fields. Both must be well formed for the
// string comparison to be chronological; malformed values never pass.
func isTimeAfter(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	end, start := fl.Field().String(), other.String()
	if !schedule.IsTimeOfDay(end) || !schedule.IsTimeOfDay(start) {
		return false
	}
	return end > start
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return snakeCase(fld.Name)
	}
	return name
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// =============================================================================
// Translations
// =============================================================================

var customMessagesEN = map[string]string{
	"hhmm":      "{0} must be a time in the HH:MM format",
	"timeafter": "{0} must be later than {1}",
	"cpf":       "{0} must be a valid CPF",
}

var customMessagesPtBR = map[string]string{
	"hhmm":      "{0} deve ser um horário no formato HH:MM",
	"timeafter": "{0} deve ser posterior a {1}",
	"cpf":       "{0} deve ser um CPF válido",
}

func registerLocale(
	v *validator.Validate,
	uni *ut.UniversalTranslator,
	locale string,
	defaults func(*validator.Validate, ut.Translator) error,
	custom map[string]string,
) error {
	trans, found := uni.GetTranslator(locale)
	if !found {
		return fmt.Errorf("validation: translator %s not found", locale)
	}
	if err := defaults(v, trans); err != nil {
		return fmt.Errorf("failed to register %s translations: %w", locale, err)
	}

	for tag, text := range custom {
		err := v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error {
				return t.Add(tag, text, true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(tag, fe.Field(), snakeCase(fe.Param()))
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return fmt.Errorf("failed to register %s translation for %s: %w", locale, tag, err)
		}
	}
	return nil
}
