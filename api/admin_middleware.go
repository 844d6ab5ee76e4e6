package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

const adminHeader = "X-Admin-Code"

var (
	ErrAdminDisabled = errors.New("admin access is disabled (ADMIN_CODE not set)")
	ErrAdminRequired = errors.New("admin code required")
	ErrAdminDenied   = errors.New("wrong admin code")
)

// CheckAdminCode compares a presented code with the configured one. An empty configured
// code disables admin access entirely.
func CheckAdminCode(configured, given string) error {
	switch {
	case configured == "":
		return ErrAdminDisabled
	case given == "":
		return ErrAdminRequired
	case subtle.ConstantTimeCompare([]byte(given), []byte(configured)) != 1:
		return ErrAdminDenied
	}
	return nil
}

// AdminOnly lets a request through only when its X-Admin-Code header matches code.
func AdminOnly(code string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := CheckAdminCode(code, r.Header.Get(adminHeader))
			switch {
			case errors.Is(err, ErrAdminDisabled):
				WriteJSONError(w, http.StatusForbidden, err.Error())
			case err != nil:
				WriteJSONError(w, http.StatusUnauthorized, err.Error())
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
