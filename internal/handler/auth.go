package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/service"
)

const (
	// LoginURL is where RequireLogin sends anonymous visitors.
	LoginURL = "/auth/login/"

	stateCookie = "oauth_state"
)

// AuthHandler serves login, logout and signup pages, and the GitHub OAuth
// flow when a provider is configured.
//
//   - HandleLogin / HandleSignup  → AuthService, then a session cookie
//   - HandleGitHubLogin           → redirect to GitHub with a state cookie
//   - HandleGitHubCallback        → check state, exchange code, session cookie
//   - HandleLogout                → clear the cookie
type AuthHandler struct {
	pages
	auth         *service.AuthService
	github       *auth.GitHubProvider // nil disables GitHub login
	secureCookie bool
}

func NewAuthHandler(
	authService *service.AuthService,
	github *auth.GitHubProvider,
	secureCookie bool,
	renderer Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		pages:        pages{renderer: renderer, logger: logger},
		auth:         authService,
		github:       github,
		secureCookie: secureCookie,
	}
}

// HandleLoginForm renders the login form, keeping ?next for the POST.
//
// HTTP: GET /auth/login/
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	form := NewForm(nil)
	form.Set("next", r.URL.Query().Get("next"))
	h.renderLogin(w, r, form)
}

// HandleLogin checks credentials and sends the user on to "next" when it is
// a local path, or to the landing page.
//
// HTTP: POST /auth/login/
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)

	result, err := h.auth.Login(r.Context(), form.Get("username"), form.Get("password"))
	if err != nil {
		if form.AddError(err) {
			form.Values.Del("password")
			h.renderLogin(w, r, form)
			return
		}
		h.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.auth.TokenTTL(), h.secureCookie)
	http.Redirect(w, r, auth.SafeNext(form.Get("next"), "/"), http.StatusFound)
}

// HandleLogout clears the session and confirms it. GET is accepted as well
// as POST so a plain link works.
//
// HTTP: GET|POST /auth/logout/
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookie)

	data := h.view(r, "Выход")
	data.User = nil
	h.render(w, r, http.StatusOK, PageLogout, data)
}

// HandleSignupForm renders the registration form.
//
// HTTP: GET /auth/signup/
func (h *AuthHandler) HandleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, r, NewForm(nil))
}

// HandleSignup registers an account and logs it in.
//
// HTTP: POST /auth/signup/
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)

	result, err := h.auth.Signup(r.Context(), service.SignupInput{
		Username:        form.Get("username"),
		Password:        form.Get("password"),
		PasswordConfirm: form.Get("password_confirm"),
	})
	if err != nil {
		if form.AddError(err) {
			form.Values.Del("password")
			form.Values.Del("password_confirm")
			h.renderSignup(w, r, form)
			return
		}
		h.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.auth.TokenTTL(), h.secureCookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleGitHubLogin redirects to GitHub's authorization page. The state
// value is kept in a short-lived cookie and checked on the callback.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.NotFound(w, r)
		return
	}

	state := auth.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: state check, code
// exchange, account upsert, session cookie.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.NotFound(w, r)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}

	// single use
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, LoginURL, http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.auth.TokenTTL(), h.secureCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, form *Form) {
	data := h.view(r, "Вход")
	data.Form = form
	data.GitHub = h.github != nil
	h.render(w, r, http.StatusOK, PageLogin, data)
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, form *Form) {
	data := h.view(r, "Регистрация")
	data.Form = form
	h.render(w, r, http.StatusOK, PageSignup, data)
}
