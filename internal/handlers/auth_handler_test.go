package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morocclubs/clubs-api/internal/auth"
)

func TestLoginIssuesBearerToken(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)

	resp := a.do(http.MethodPost, "/auth/login", map[string]string{"email": u.Email, "password": userPassword}, "")
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))

	body := resp.json(t)
	assert.Equal(t, "bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	claims, err := a.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.False(t, claims.Admin)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)

	wrongPassword := a.do(http.MethodPost, "/auth/login", map[string]string{"email": u.Email, "password": "not-it"}, "")
	unknownEmail := a.do(http.MethodPost, "/auth/login", map[string]string{"email": "nobody@example.com", "password": "not-it"}, "")

	for _, resp := range []response{wrongPassword, unknownEmail} {
		assert.Equal(t, http.StatusUnauthorized, resp.status)
		assert.Equal(t, "Bearer", resp.header.Get("WWW-Authenticate"))
	}
	assert.JSONEq(t, string(wrongPassword.body), string(unknownEmail.body))
	assert.Equal(t, "Incorrect email or password", wrongPassword.json(t)["message"])
}

func TestLoginRejectsMalformedInput(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(http.MethodPost, "/auth/login", "{not json", "")
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = a.do(http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.status)
	fields, _ := resp.json(t)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestAdminLogin(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(http.MethodPost, "/auth/admin-login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	token := resp.json(t)["access_token"].(string)

	claims, err := a.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminSubject, claims.Subject)
	assert.True(t, claims.Admin)

	resp = a.do(http.MethodPost, "/auth/admin-login", map[string]string{"email": adminEmail, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "Bearer", resp.header.Get("WWW-Authenticate"))
}

func TestAdminLoginDoesNotAcceptUserCredentials(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(true)

	resp := a.do(http.MethodPost, "/auth/admin-login", map[string]string{"email": u.Email, "password": userPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestMeReturnsUserProfile(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)

	resp := a.do(http.MethodGet, "/auth/me", nil, a.userToken(u))
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))

	body := resp.json(t)
	assert.Equal(t, u.ID, body["id"])
	assert.Equal(t, u.Email, body["email"])
	assert.Equal(t, false, body["is_admin"])
	assert.NotContains(t, body, "password_hash")
}

func TestMeForAdminPrincipal(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(http.MethodGet, "/auth/me", nil, a.adminToken())
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	assert.JSONEq(t,
		`{"id":"admin","email":"admin@morocclubs.com","is_admin":true,"principal":"admin"}`,
		string(resp.body))
}

func TestUnauthenticatedResponsesAreUniform(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)

	past, err := auth.NewTokenService(a.cfg, auth.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	require.NoError(t, err)
	expired, err := past.Issue(u.ID, nil, time.Minute)
	require.NoError(t, err)

	otherCfg := *a.cfg
	otherCfg.SecretKey = "some-other-secret-some-other-secret"
	foreign, err := auth.NewTokenService(&otherCfg)
	require.NoError(t, err)
	forged, err := foreign.IssueAdmin()
	require.NoError(t, err)

	orphan, err := a.tokens.Issue("no-such-user", nil, 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expired},
		{"wrong key", forged},
		{"unknown subject", orphan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.do(http.MethodGet, "/auth/me", nil, tt.token)
			assert.Equal(t, http.StatusUnauthorized, resp.status)
			assert.Equal(t, "Bearer", resp.header.Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"error":true,"message":"Could not validate credentials"}`, string(resp.body))
		})
	}
}

func TestTokenForDeletedUserIsRejected(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)
	token := a.userToken(u)

	require.NoError(t, a.db.Delete(u).Error)

	resp := a.do(http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestLogout(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)
	token := a.userToken(u)

	resp := a.do(http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"message":"Successfully logged out"}`, string(resp.body))

	// Tokens are stateless: the same token keeps working until it expires.
	resp = a.do(http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, resp.status)

	resp = a.do(http.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestUpdateMe(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(false)

	resp := a.do(http.MethodPut, "/api/users/me", map[string]any{"bio": "Hiker", "interests": []string{"hiking"}}, a.userToken(u))
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	body := resp.json(t)
	assert.Equal(t, "Hiker", body["bio"])
	assert.Equal(t, []any{"hiking"}, body["interests"])

	resp = a.do(http.MethodPut, "/api/users/me", map[string]any{"bio": "x"}, a.adminToken())
	assert.Equal(t, http.StatusForbidden, resp.status)
}

func TestAdminCreatesUser(t *testing.T) {
	a := newTestApp(t)
	req := map[string]any{"email": "new@example.com", "password": "long-enough-pw", "first_name": "Youssef"}

	resp := a.do(http.MethodPost, "/api/admin/users", req, a.adminToken())
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	assert.Equal(t, "new@example.com", resp.json(t)["email"])

	resp = a.do(http.MethodPost, "/api/admin/users", req, a.adminToken())
	assert.Equal(t, http.StatusConflict, resp.status)

	login := a.do(http.MethodPost, "/auth/login", map[string]string{"email": "new@example.com", "password": "long-enough-pw"}, "")
	assert.Equal(t, http.StatusOK, login.status)
}

func TestAdminRoutesRequireAdministrator(t *testing.T) {
	a := newTestApp(t)
	member := a.createUser(false)
	staff := a.createUser(true)
	req := map[string]any{"email": "x@example.com", "password": "long-enough-pw"}

	resp := a.do(http.MethodPost, "/api/admin/users", req, "")
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = a.do(http.MethodPost, "/api/admin/users", req, a.userToken(member))
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "Admin access required", resp.json(t)["message"])

	resp = a.do(http.MethodPost, "/api/admin/users", req, a.userToken(staff))
	assert.Equal(t, http.StatusCreated, resp.status)
}
