package httpx

import (
	"context"
	"net/http"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
)

// HeaderUserID carries the user identity established by the upstream auth proxy.
const HeaderUserID = "X-User-Id"

type ctxKey string

const (
	ctxUserID    ctxKey = "user_id"
	ctxRequestID ctxKey = "request_id"
)

// UserIDFromRequest returns the trimmed identity header, or "".
func UserIDFromRequest(r *http.Request) string {
	if v, ok := r.Context().Value(ctxUserID).(string); ok {
		return v
	}
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxUserID, id)
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestID).(string)
	return v
}

// RequireUser rejects requests without a user identity.
func RequireUser(eh *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserIDFromRequest(r)
			if uid == "" {
				eh.Handle(w, r, apperrors.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), uid)))
		})
	}
}

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin(checker AdminChecker, eh *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserIDFromRequest(r)
			if uid == "" {
				eh.Handle(w, r, apperrors.NewUnauthorizedError())
				return
			}
			ok, err := checker.IsAdmin(r.Context(), uid)
			if err != nil {
				eh.Handle(w, r, err)
				return
			}
			if !ok {
				eh.Handle(w, r, apperrors.NewForbiddenError("user "+uid+" is not an admin"))
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), uid)))
		})
	}
}
