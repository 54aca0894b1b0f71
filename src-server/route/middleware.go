package route

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smartschedule/src-server/auth"
	"smartschedule/src-server/model"
	"smartschedule/src-server/schedule"
	"smartschedule/src-server/store"
	"smartschedule/src-server/utils"
)

type CallerCtxKeyType string

const (
	CallerCtxKey           CallerCtxKeyType = "caller"
	SessionTokenCookieName string           = "session-token"
	GuestTokenCookieName   string           = "guest-token"
)

// Caller is what the middleware resolves for every request: who is asking
// and which of the two event backends their session owns.
type Caller struct {
	UserID string
	Guest  bool
	Source schedule.Source
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// SessionMiddleware binds the request to exactly one event source. A guest
// token wins over a signed-in session: once a session went guest it stays
// guest until the cookie dies.
func SessionMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if guestToken := cookieValue(r, GuestTokenCookieName); guestToken != "" {
			if buffer, ok := as.GuestBuffer(guestToken); ok {
				ctx := context.WithValue(r.Context(), CallerCtxKey, &Caller{
					Guest:  true,
					Source: buffer,
				})
				next(w, r.WithContext(ctx))
				return
			}
			// stale guest cookie, likely a server restart; fall through to
			// the signed-in path
		}

		sessionToken := cookieValue(r, SessionTokenCookieName)
		if sessionToken == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Please sign in or continue as a guest"))
			return
		}

		claims, err := auth.ParseToken(sessionToken, []byte(as.Config.GetJWTSecret()))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid session token"))
			return
		}

		startTimer := time.Now()
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Session)(nil)).
			Where("secret = ?", claims.SessionSecret).
			Where("user_id = ?", claims.UserID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if session exists in DB"))
			slog.Error("can't check if session exists in DB", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session not found"))
			return
		}
		as.MetricChans.SessionCheckLatency <- float64(time.Since(startTimer).Microseconds())

		sessionModel := new(model.Session)
		if err := as.BunDB.
			NewSelect().
			Model(sessionModel).
			Where("secret = ?", claims.SessionSecret).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't find session model in DB"))
			slog.Error("can't find session model in DB", "error", err)
			return
		}
		if time.Unix(sessionModel.CreatedAtUnixUTC, 0).UTC().
			Add(as.Config.GetSessionTTL()).Before(time.Now()) {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", claims.SessionSecret).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete session model in DB"))
				slog.Error("can't delete session model in DB", "error", err)
				return
			}

			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session expired"))
			return
		}

		ctx := context.WithValue(r.Context(), CallerCtxKey, &Caller{
			UserID: sessionModel.UserID,
			Source: store.New(as.BunDB, as.Config.GetLocation(), sessionModel.UserID),
		})
		next(w, r.WithContext(ctx))
	}
}
