package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetwize-api/internal/domain"
)

type stubTokens struct {
	token string
	pat   *domain.PersonalAccessToken
}

func (s *stubTokens) FindTokenByPlainToken(ctx context.Context, plainToken string) (*domain.PersonalAccessToken, error) {
	if plainToken == s.token {
		return s.pat, nil
	}
	return nil, http.ErrNoCookie
}

func newAuthServer(tokens TokenFinder) *httptest.Server {
	mw := TokenMiddleware(tokens)
	return httptest.NewServer(mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserID(r.Context())
		if err != nil {
			http.Error(w, "no user", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(userID))
	})))
}

func TestTokenMiddleware_BearerHeader(t *testing.T) {
	srv := newAuthServer(&stubTokens{token: "1|secret", pat: &domain.PersonalAccessToken{UserID: "u1"}})
	defer srv.Close()

	req, _ := http.NewRequest("GET", srv.URL, nil)
	req.Header.Set("Authorization", "Bearer 1|secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestTokenMiddleware_QueryFallback(t *testing.T) {
	srv := newAuthServer(&stubTokens{token: "1|secret", pat: &domain.PersonalAccessToken{UserID: "u1"}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?token=1%7Csecret")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestTokenMiddleware_Unauthorized(t *testing.T) {
	srv := newAuthServer(&stubTokens{token: "1|secret", pat: &domain.PersonalAccessToken{UserID: "u1"}})
	defer srv.Close()

	// no token
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// wrong token
	req, _ := http.NewRequest("GET", srv.URL, nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", resp.StatusCode)
	}
}

func TestTokenMiddleware_ExpiredToken(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	srv := newAuthServer(&stubTokens{
		token: "1|secret",
		pat:   &domain.PersonalAccessToken{UserID: "u1", ExpiresAt: &expired},
	})
	defer srv.Close()

	req, _ := http.NewRequest("GET", srv.URL, nil)
	req.Header.Set("Authorization", "Bearer 1|secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
}

func TestStaticTokenFinder(t *testing.T) {
	f := StaticTokenFinder{"demo": "demo-user"}

	pat, err := f.FindTokenByPlainToken(context.Background(), "demo")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if pat.UserID != "demo-user" {
		t.Errorf("expected demo-user, got %s", pat.UserID)
	}

	if _, err := f.FindTokenByPlainToken(context.Background(), "other"); err == nil {
		t.Error("expected error for unknown token")
	}
}
