package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/survivaldisc/internal/annotate"
	"github.com/sakif/survivaldisc/internal/auth"
	"github.com/sakif/survivaldisc/internal/handler"
	"github.com/sakif/survivaldisc/internal/repository/sqlite"
	"github.com/sakif/survivaldisc/internal/service"
)

// testEnv wires the full handler stack over an in-memory database and the
// real auth middleware, so requests travel the same path they would in
// production: cookie → JWT validation → identity context → handler.
type testEnv struct {
	router chi.Router
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}

	sessions := service.NewSessionService(db.Sessions(), logger)
	accounts := service.NewAccountService(
		db.Accounts(),
		sessions,
		auth.NewPasswordServiceForTest(bcrypt.MinCost),
		tokens,
		0,
		logger,
	)
	files := service.NewFileService(db.Files(), true, logger)
	stats := service.NewStatsService(db.Accounts(), db.Files(), logger)

	authHandler := handler.NewAuthHandler(accounts, sessions, time.Hour, logger)
	driveHandler := handler.NewDriveHandler(files, accounts, annotate.Static{}, logger)
	adminHandler := handler.NewAdminHandler(accounts, stats, logger)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/session", authHandler.HandleSession)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/me", authHandler.HandleMe)
		})
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/welcome", driveHandler.HandleWelcome)
		r.Get("/files", driveHandler.HandleBrowse)
		r.Put("/files", driveHandler.HandleSave)
		r.Post("/files", driveHandler.HandleCreate)
		r.Delete("/files/{id}", driveHandler.HandleDelete)
		r.Get("/files/{id}/share", driveHandler.HandleShare)
		r.Get("/files/{id}/analysis", driveHandler.HandleAnalysis)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", adminHandler.HandleListUsers)
			r.Get("/stats", adminHandler.HandleStats)
		})
	})

	return &testEnv{router: r, tokens: tokens}
}

// do fires a request through the router. A nil cookie sends the request
// unauthenticated.
func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// register creates an account through the API and returns its auth cookie.
// The first registration in a fresh env gets the admin role.
func (e *testEnv) register(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()

	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	rr := e.do(t, http.MethodPost, "/auth/register", body, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rr.Code, rr.Body.String())
	}

	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("register %s: no auth cookie in response", email)
	return nil
}

// decode unmarshals a recorder body into dst.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}
