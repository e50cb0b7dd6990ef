package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/survivaldisc/internal/model"
)

func TestAuth_RegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register sets cookie and returns profile", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/register",
			`{"name":"Sarah Connor","email":"sarah@example.com","password":"resistance1997"}`, nil)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var profile model.Profile
		decode(t, rr, &profile)
		assert.Equal(t, "sarah@example.com", profile.Email)
		assert.Equal(t, "Survivor", profile.Tier)
		assert.Equal(t, model.RoleAdmin, profile.Role, "first registrant gets the admin role")

		cookies := rr.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotEmpty(t, cookies[0].Value)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/register",
			`{"name":"Other","email":"sarah@example.com","password":"different1"}`, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("login with right password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/login",
			`{"email":"sarah@example.com","password":"resistance1997"}`, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var profile model.Profile
		decode(t, rr, &profile)
		assert.Equal(t, "Sarah Connor", profile.Name)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/login",
			`{"email":"sarah@example.com","password":"wrong-password"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("login with unknown email gets the same status", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/login",
			`{"email":"nobody@example.com","password":"whatever123"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuth_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"name":`},
		{"missing email", `{"name":"X","password":"longenough1"}`},
		{"short password", `{"name":"X","email":"x@example.com","password":"short"}`},
		{"unknown field", `{"name":"X","email":"x@example.com","password":"longenough1","admin":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestAuth_SessionSlot(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty slot before anyone signs in", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/auth/session", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	cookie := env.register(t, "Sarah Connor", "sarah@example.com", "resistance1997")

	t.Run("slot reflects the registration", func(t *testing.T) {
		// No cookie needed — the slot is the "still signed in?" probe.
		rr := env.do(t, http.MethodGet, "/auth/session", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var profile model.Profile
		decode(t, rr, &profile)
		assert.Equal(t, "sarah@example.com", profile.Email)
	})

	t.Run("logout clears the slot and expires the cookie", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/auth/logout", "", cookie)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		cookies := rr.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Negative(t, cookies[0].MaxAge)

		rr = env.do(t, http.MethodGet, "/auth/session", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAuth_Me(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "Sarah Connor", "sarah@example.com", "resistance1997")

	t.Run("with valid cookie", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/auth/me", "", cookie)
		assert.Equal(t, http.StatusOK, rr.Code)

		var profile model.Profile
		decode(t, rr, &profile)
		assert.Equal(t, "sarah@example.com", profile.Email)
	})

	t.Run("without cookie", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("with garbage token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/auth/me", "", &http.Cookie{Name: "token", Value: "not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
