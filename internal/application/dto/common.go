package dto

import (
	"fmt"
	"time"
)

// DateLayout formato de fechas sin hora en requests y responses.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseDate interpreta "YYYY-MM-DD"; cadena vacía devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q", s)
	}
	return &t, nil
}

// FormatDate inverso de ParseDate.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
