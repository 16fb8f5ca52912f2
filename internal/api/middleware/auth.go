package middleware

import (
	"context"
	"net/http"

	"message_board/internal/app/service"
	"message_board/internal/common"
	"message_board/internal/domain/model"
)

type contextKey string

const userCtxKey contextKey = "user"

// Credential headers carry the raw username and password on every
// authenticated call. The server is fully stateless between requests: no
// cookie, no bearer token, no expiry.
const (
	UsernameHeader = "Username"
	PasswordHeader = "Password"
)

// Authenticator validates the credential headers and resolves the acting
// user into the request context.
func Authenticator(users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := r.Header.Get(UsernameHeader)
			password := r.Header.Get(PasswordHeader)
			if username == "" || password == "" {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing username or password header")
				return
			}

			ok, err := users.VerifyLogin(r.Context(), username, password)
			if err != nil {
				common.RespondWithDomainError(w, err)
				return
			}
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Incorrect username or password")
				return
			}

			user, err := users.Get(r.Context(), username)
			if err != nil {
				common.RespondWithDomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by Authenticator.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok
}
