package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/types"
)

// Codes whose internal message is safe to surface to callers verbatim.
var messagePassthrough = map[pkgerrors.Code]bool{
	pkgerrors.CodeValidation:        true,
	pkgerrors.CodeUnauthorized:      true,
	pkgerrors.CodeNotFound:          true,
	pkgerrors.CodeEntitlementDenied: true,
	pkgerrors.CodeInactiveResource:  true,
	pkgerrors.CodeNoBandAssignment:  true,
	pkgerrors.CodeNoPriceForBand:    true,
	pkgerrors.CodeEmptyCart:         true,
	pkgerrors.CodeConflict:          true,
	pkgerrors.CodeIdempotency:       true,
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Success: true, Data: data})
}

// WriteError maps a typed error onto its registered HTTP status and body.
// Untyped errors are treated as internal and never leak their message.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unhandled error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		dump := pkgerrors.Dump(typed)
		fields := map[string]any{
			"error_code":  string(dump.Code),
			"http_status": meta.HTTPStatus,
			"error_chain": dump.Chain,
		}
		if dump.PGCode != "" {
			fields["pg_code"] = dump.PGCode
			fields["pg_constraint"] = dump.PGConstraint
			fields["pg_table"] = dump.PGTable
		}
		logg.Error(logg.WithFields(ctx, fields), "request.error", typed)
	}

	body := types.APIError{
		Code:      typed.Code(),
		Message:   meta.PublicMessage,
		Retryable: meta.Retryable,
	}
	if messagePassthrough[typed.Code()] && typed.Message() != "" {
		body.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Success: false, Error: body})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
