package validation

import (
	"net/http"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validator adapts go-playground/validator to echo's Validator interface so
// handlers can call c.Validate(req) after binding.
type Validator struct {
	validate *validator.Validate
}

// New builds the request validator with the platform's custom rules
// registered.
func New() *Validator {
	v := validator.New()
	v.RegisterValidation("role", validateRole)
	v.RegisterValidation("hhmm", validateHHMM)
	v.RegisterValidation("dateymd", validateDateYMD)
	return &Validator{validate: v}
}

// Validate implements echo.Validator. Validation failures surface as 400s
// with the validator's message so the client sees which field failed.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func validateRole(fl validator.FieldLevel) bool {
	return auth.ValidRole(fl.Field().String())
}

// validateHHMM accepts zero-padded 24-hour clock times, e.g. "09:00".
func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

// validateDateYMD accepts calendar dates in YYYY-MM-DD form.
func validateDateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
