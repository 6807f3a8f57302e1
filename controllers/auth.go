package controllers

import (
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/google/uuid"

	"github.com/prodoffice/crew-timesheet/authenticator"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login initiates the authentication process
func (ac *AuthController) Login(auth *authenticator.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set("state", state)

		http.Redirect(w, r, auth.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the redirect back from the identity provider
func (ac *AuthController) Callback(auth *authenticator.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState := sess.Get("state")
		if storedState == nil {
			respondError(w, http.StatusBadRequest, "state not found in session")
			return
		}
		if r.URL.Query().Get("state") != storedState.(string) {
			respondError(w, http.StatusBadRequest, "invalid state parameter")
			return
		}

		token, err := auth.Exchange(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "failed to exchange authorization code: "+err.Error())
			return
		}

		idToken, err := auth.VerifyIDToken(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to verify ID token: "+err.Error())
			return
		}

		var profile map[string]interface{}
		if err := idToken.Claims(&profile); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		sess.Set("user_id", profile["sub"].(string))
		if email, ok := profile["email"].(string); ok && email != "" {
			sess.Set("user_email", email)
		}

		sess.Delete("state")

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete("user_id")
	sess.Delete("user_email")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
