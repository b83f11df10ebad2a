package validator

import (
	"regexp"
	"strings"
	"sync"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// gstinPattern is the 15 character GSTIN: state code, PAN, entity number, Z, checksum
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// DefaultPhoneRegion is used when a phone number carries no country code
const DefaultPhoneRegion = "IN"

func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("gstin", validateGSTIN)
		_ = validate.RegisterValidation("phone", validatePhone)
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NormalizeGSTIN trims s and upper cases it, the stored form of a GSTIN
func NormalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidGSTIN reports whether s is a well formed GSTIN once normalized
func IsValidGSTIN(s string) bool {
	return gstinPattern.MatchString(NormalizeGSTIN(s))
}

// IsValidPhone reports whether s parses as a possible phone number
func IsValidPhone(s string) bool {
	num, err := libphonenumber.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return libphonenumber.IsPossibleNumber(num)
}

// NormalizePhone formats s as E.164, returning s unchanged when it does not parse
func NormalizePhone(s string) string {
	num, err := libphonenumber.Parse(s, DefaultPhoneRegion)
	if err != nil {
		return s
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

func validateGSTIN(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return v == "" || IsValidGSTIN(v)
}

func validatePhone(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == "" || IsValidPhone(v)
}
