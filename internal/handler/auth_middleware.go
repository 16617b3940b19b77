package handler

import (
	"context"
	"net/http"

	"quickchat/internal/app/user"
	"quickchat/internal/pkg/auth/jwt"
	"quickchat/internal/pkg/errs"
	"quickchat/internal/pkg/logx"
	"quickchat/internal/pkg/resp"
)

type contextKey string

// contextUserKey stores the authenticated *user.User in the request Context.
const contextUserKey contextKey = "current_user"

// RequireUser guards a route group: the bearer token must be valid and the
// account it names must still exist. The loaded account is injected into the
// request Context for the handlers.
func RequireUser(deps *AppDeps) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := jwt.GetPayloadFromContext(r)
			if payload == nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			current, err := deps.Users.GetByID(r.Context(), payload.UserID)
			if err != nil {
				logx.Error(err, "Failed to load authenticated user", "user_id", payload.UserID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			if current == nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, current)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser extracts the authenticated account placed by RequireUser.
func CurrentUser(r *http.Request) *user.User {
	u, ok := r.Context().Value(contextUserKey).(*user.User)
	if !ok {
		return nil
	}
	return u
}

// WithCurrentUser returns a Context carrying the given account, as RequireUser
// would set it. Exposed for handler tests.
func WithCurrentUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, contextUserKey, u)
}
