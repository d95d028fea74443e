// Package authproxy runs the loopback HTTP server used during `agentdeck
// login`. It receives the GitHub authorization code on the callback route and
// exchanges it for the provider's access-token JSON. Provider-reported errors
// are forwarded as 400; unexpected failures become 500.
package authproxy

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	defaultTokenURL     = "https://github.com/login/oauth/access_token"
	maxProviderBytes    = 1 << 20
)

// TokenResponse is the provider's access-token JSON, passed through verbatim
// to the caller (the Error fields are set when the provider rejects the code).
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type,omitempty"`
	Scope            string `json:"scope,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type Result struct {
	Token TokenResponse
	Err   error
}

type Server struct {
	clientID     string
	clientSecret string
	listenAddr   string

	// authorizeURL/tokenURL are overridable for tests.
	authorizeURL string
	tokenURL     string

	hc *http.Client

	state   string
	results chan Result
}

func New(clientID, clientSecret, listenAddr string) (*Server, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return nil, errors.New("authproxy: GitHub OAuth client id/secret not configured")
	}
	state, err := randomBase64URL(32)
	if err != nil {
		return nil, err
	}
	return &Server{
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		listenAddr:   listenAddr,
		authorizeURL: defaultAuthorizeURL,
		tokenURL:     defaultTokenURL,
		hc:           &http.Client{Timeout: 10 * time.Second},
		state:        state,
		results:      make(chan Result, 1),
	}, nil
}

// AuthorizeURL is the provider URL the user opens in a browser.
func (s *Server) AuthorizeURL() string {
	u, _ := url.Parse(s.authorizeURL)
	q := u.Query()
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", "http://"+s.listenAddr+"/auth/github/callback")
	q.Set("state", s.state)
	q.Set("scope", "read:user user:email")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/auth/github/callback", s.handleCallback)
	r.Get("/auth/github/token", s.handleTokenProxy)
	return r
}

// Wait blocks until the callback delivers a result or ctx expires.
func (s *Server) Wait(ctx context.Context) (TokenResponse, error) {
	select {
	case res := <-s.results:
		return res.Token, res.Err
	case <-ctx.Done():
		return TokenResponse{}, ctx.Err()
	}
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if ghErr := strings.TrimSpace(q.Get("error")); ghErr != "" {
		msg := ghErr
		if desc := strings.TrimSpace(q.Get("error_description")); desc != "" {
			msg += ": " + desc
		}
		s.deliver(Result{Err: fmt.Errorf("authorization failed: %s", msg)})
		writePlainPage(w, http.StatusBadRequest, "Login failed. You can close this tab.")
		return
	}

	code := strings.TrimSpace(q.Get("code"))
	state := strings.TrimSpace(q.Get("state"))
	if code == "" || state == "" {
		s.deliver(Result{Err: errors.New("callback missing code or state")})
		writePlainPage(w, http.StatusBadRequest, "Login failed. You can close this tab.")
		return
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(s.state)) != 1 {
		s.deliver(Result{Err: errors.New("state mismatch")})
		writePlainPage(w, http.StatusBadRequest, "Login failed. You can close this tab.")
		return
	}

	tok, status, err := s.exchange(r.Context(), code)
	if err != nil {
		logError(r.Context(), "token exchange", err)
		s.deliver(Result{Err: err})
		writePlainPage(w, status, "Login failed. You can close this tab.")
		return
	}
	s.deliver(Result{Token: tok})
	writePlainPage(w, http.StatusOK, "Logged in. You can close this tab and return to the terminal.")
}

// handleTokenProxy is the bare exchange route: it takes a code and returns the
// provider's token JSON as-is.
func (s *Server) handleTokenProxy(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing code")
		return
	}
	tok, status, err := s.exchange(r.Context(), code)
	if err != nil {
		logError(r.Context(), "token exchange", err)
		if status == http.StatusBadRequest {
			// Provider rejected the code; forward its response.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(tok)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "token exchange failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tok)
}

// exchange posts the code to the provider. The returned status is the one the
// proxy should respond with on error: 400 for provider rejections, 500
// otherwise.
func (s *Server) exchange(ctx context.Context, code string) (TokenResponse, int, error) {
	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, http.StatusInternalServerError, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.hc.Do(req)
	if err != nil {
		return TokenResponse{}, http.StatusInternalServerError, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxProviderBytes))
	if err != nil {
		return TokenResponse{}, http.StatusInternalServerError, err
	}

	var tok TokenResponse
	if err := json.Unmarshal(b, &tok); err != nil {
		return TokenResponse{}, http.StatusInternalServerError, fmt.Errorf("provider response: %w", err)
	}
	if tok.Error != "" {
		return tok, http.StatusBadRequest, fmt.Errorf("provider error: %s", tok.Error)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return TokenResponse{}, http.StatusInternalServerError, fmt.Errorf("token exchange http %d", res.StatusCode)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return TokenResponse{}, http.StatusInternalServerError, errors.New("missing access_token")
	}
	return tok, http.StatusOK, nil
}

func (s *Server) deliver(res Result) {
	select {
	case s.results <- res:
	default:
		// A result is already pending; keep the first one.
	}
}

func randomBase64URL(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func writePlainPage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg + "\n"))
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
