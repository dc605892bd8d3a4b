package helpers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s wajib diisi.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s harus berupa alamat email yang valid.", err.Field())
		case "numeric", "number":
			errorMessages[field] = fmt.Sprintf("%s harus berupa angka.", err.Field())
		case "min", "gte":
			errorMessages[field] = fmt.Sprintf("%s minimal %s.", err.Field(), err.Param())
		case "max", "lte":
			errorMessages[field] = fmt.Sprintf("%s maksimal %s.", err.Field(), err.Param())
		case "gt":
			errorMessages[field] = fmt.Sprintf("%s harus lebih dari %s.", err.Field(), err.Param())
		case "phone":
			errorMessages[field] = fmt.Sprintf("%s bukan nomor telepon yang valid.", err.Field())
		default:
			errorMessages[field] = fmt.Sprintf("Validasi %s gagal pada field %s.", err.Tag(), err.Field())
		}
	}
	return errorMessages
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}

// ParseDecimal parses form input, accepting a comma as decimal separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}

func ParseIntDefault(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// RedirectURL appends the status/message query used by list pages.
func RedirectURL(path, status, message string) string {
	return fmt.Sprintf("%s?status=%s&message=%s", path, url.QueryEscape(status), url.QueryEscape(message))
}
