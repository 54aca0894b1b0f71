package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartschedule/src-server/auth"
	"smartschedule/src-server/model"
	"smartschedule/src-server/utils"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	type CredentialsReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// sign up
	muxer.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CredentialsReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		reqBody.Username = strings.TrimSpace(reqBody.Username)
		if reqBody.Username == "" || reqBody.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a username and password"))
			return
		}

		exists, err := as.BunDB.
			NewSelect().
			Model((*model.User)(nil)).
			Where("username = ?", reqBody.Username).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if username is taken"))
			return
		case exists:
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Username is taken"))
			return
		}

		passwordHash, err := auth.HashPassword(reqBody.Password)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't hash password"))
			return
		}
		userModel := model.User{
			ID:           uuid.NewString(),
			Username:     reqBody.Username,
			PasswordHash: passwordHash,
		}
		if err := userModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create user"))
			return
		}

		w.WriteHeader(http.StatusOK)
	})

	// login
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CredentialsReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		userModel := new(model.User)
		err := as.BunDB.
			NewSelect().
			Model(userModel).
			Where("username = ?", strings.TrimSpace(reqBody.Username)).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid username or password"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't look up user"))
			return
		}
		if !auth.CheckPassword(userModel.PasswordHash, reqBody.Password) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid username or password"))
			return
		}

		sessionSecret := uuid.NewString()
		if _, err := as.BunDB.
			NewInsert().
			Model(&model.Session{
				Secret:           sessionSecret,
				UserID:           userModel.ID,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert session model to DB"))
			return
		}

		token, err := auth.GenerateToken(
			userModel.ID,
			sessionSecret,
			[]byte(as.Config.GetJWTSecret()),
			as.Config.GetSessionTTL())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create session token"))
			return
		}

		switch as.Config.GetDev() {
		case true:
			w.Write([]byte(fmt.Sprintf(`{"sessionToken": "%s"}`, token)))
		case false:
			w.Header().Set("Set-Cookie", SessionTokenCookieName+"="+token+"; Path=/; HttpOnly; SameSite=Lax")
		}
		w.WriteHeader(http.StatusOK)
	})

	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		if sessionToken := cookieValue(r, SessionTokenCookieName); sessionToken != "" {
			if claims, err := auth.ParseToken(sessionToken, []byte(as.Config.GetJWTSecret())); err == nil {
				if _, err := as.BunDB.
					NewDelete().
					Model((*model.Session)(nil)).
					Where("secret = ?", claims.SessionSecret).
					Exec(r.Context()); err != nil {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Can't delete session model in DB"))
					return
				}
			}
		}
		if guestToken := cookieValue(r, GuestTokenCookieName); guestToken != "" {
			as.DropGuestSession(guestToken)
		}

		w.Header().Add("Set-Cookie", SessionTokenCookieName+"=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0")
		w.Header().Add("Set-Cookie", GuestTokenCookieName+"=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0")
		w.WriteHeader(http.StatusOK)
	})

	type SessionRespBody struct {
		Authenticated bool   `json:"authenticated"`
		Guest         bool   `json:"guest"`
		UserID        string `json:"userId,omitempty"`
	}

	// session probe; ?guest=1 forces guest mode for the rest of the session,
	// regardless of any signed-in state, and the switch never reverses
	muxer.HandleFunc("GET /auth/session", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		guestToken := cookieValue(r, GuestTokenCookieName)
		if guestToken != "" {
			if _, ok := as.GuestBuffer(guestToken); !ok {
				guestToken = ""
			}
		}
		if guestToken == "" && r.URL.Query().Get("guest") == "1" {
			guestToken = as.NewGuestSession()
			w.Header().Set("Set-Cookie", GuestTokenCookieName+"="+guestToken+"; Path=/; HttpOnly; SameSite=Lax")
		}
		if guestToken != "" {
			json.NewEncoder(w).Encode(SessionRespBody{Guest: true})
			return
		}

		respBody := SessionRespBody{}
		if sessionToken := cookieValue(r, SessionTokenCookieName); sessionToken != "" {
			if claims, err := auth.ParseToken(sessionToken, []byte(as.Config.GetJWTSecret())); err == nil {
				exists, err := as.BunDB.
					NewSelect().
					Model((*model.Session)(nil)).
					Where("secret = ?", claims.SessionSecret).
					Exists(r.Context())
				if err == nil && exists {
					respBody.Authenticated = true
					respBody.UserID = claims.UserID
				}
			}
		}
		json.NewEncoder(w).Encode(respBody)
	})
}
