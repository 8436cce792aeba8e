package validators

import (
	"fmt"
	"net/http"
	"strconv"

	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter, falling back
// to def when absent and rejecting values outside [min, max].
func ParseQueryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be an integer", name))
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be between %d and %d", name, min, max))
	}
	return value, nil
}
