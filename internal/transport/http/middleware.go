package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userIDKey
)

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func userIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)

// authenticated resolves the bearer token and hands the caller's id to next.
// The id also rides on the request context for anything further down.
func (s *Server) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeMessage(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		parts := strings.Fields(header)
		if len(parts) < 2 {
			writeMessage(w, http.StatusUnauthorized, "Token missing")
			return
		}

		userID, err := s.deps.Tokens.Verify(parts[1])
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		next(w, r, userID)
	}
}
