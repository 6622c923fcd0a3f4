package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/service"
)

func rbacTestRouter(t *testing.T) (*gin.Engine, *service.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := service.NewTokenIssuer(testCfg())
	requireAccess := RequireAuth(CookieExtractor(AccessCookieName), issuer.ParseAccess)

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

	r := gin.New()
	r.GET("/public", ok)
	r.GET("/any-authenticated", requireAccess, ok)
	r.GET("/admin-only", requireAccess, RequireRoles(model.RoleAdmin), ok)
	r.GET("/admin-or-team", requireAccess, RequireRoles(model.RoleAdmin, model.RoleTeam), ok)
	return r, issuer
}

func getWithToken(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

func accessTokenFor(t *testing.T, issuer *service.TokenIssuer, role model.Role) string {
	t.Helper()
	user := testUser(t, string(role)+"@x.com", "password1", role)
	pair, err := issuer.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return pair.AccessToken
}

func TestPublicRouteNeedsNoCookies(t *testing.T) {
	r, _ := rbacTestRouter(t)

	if w := getWithToken(t, r, "/public", ""); w.Code != http.StatusOK {
		t.Fatalf("public route without cookies: expected 200, got %d", w.Code)
	}
}

func TestAnyAuthenticatedRoute(t *testing.T) {
	r, issuer := rbacTestRouter(t)

	if w := getWithToken(t, r, "/any-authenticated", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}
	if w := getWithToken(t, r, "/any-authenticated", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}

	// No roles declared means any verified identity passes.
	for _, role := range []model.Role{model.RoleAdmin, model.RoleClient, model.RoleTeam} {
		if w := getWithToken(t, r, "/any-authenticated", accessTokenFor(t, issuer, role)); w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", role, w.Code)
		}
	}
}

func TestRoleAllowListIsExact(t *testing.T) {
	r, issuer := rbacTestRouter(t)

	if w := getWithToken(t, r, "/admin-only", accessTokenFor(t, issuer, model.RoleAdmin)); w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: expected 200, got %d", w.Code)
	}
	if w := getWithToken(t, r, "/admin-only", accessTokenFor(t, issuer, model.RoleClient)); w.Code != http.StatusForbidden {
		t.Fatalf("client on admin route: expected 403, got %d", w.Code)
	}
	if w := getWithToken(t, r, "/admin-only", accessTokenFor(t, issuer, model.RoleTeam)); w.Code != http.StatusForbidden {
		t.Fatalf("team on admin route: expected 403, got %d", w.Code)
	}

	if w := getWithToken(t, r, "/admin-or-team", accessTokenFor(t, issuer, model.RoleTeam)); w.Code != http.StatusOK {
		t.Fatalf("team on admin-or-team route: expected 200, got %d", w.Code)
	}
	if w := getWithToken(t, r, "/admin-or-team", accessTokenFor(t, issuer, model.RoleClient)); w.Code != http.StatusForbidden {
		t.Fatalf("client on admin-or-team route: expected 403, got %d", w.Code)
	}
}

func TestRoleGuardWithoutIdentityRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Misconfigured chain: role guard without a preceding token strategy.
	r.GET("/broken", RequireRoles(model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCORSMiddlewareAllowsCookiesForKnownOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com", " https://admin.example.com "}))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Fatalf("expected echoed origin, got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("cookie transport needs credentials allowed")
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); strings.Contains(got, "Authorization") {
		t.Fatalf("no route reads an Authorization header, got %q", got)
	}

	// Unknown origin gets no CORS grant but the request still runs.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin granted CORS")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Preflight short-circuits.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", w.Code)
	}
}

func TestCookieExtractor(t *testing.T) {
	extract := CookieExtractor("Authentication")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := extract(req); ok {
		t.Fatal("extractor found a token in a cookieless request")
	}

	req.AddCookie(&http.Cookie{Name: "Authentication", Value: "tok"})
	token, ok := extract(req)
	if !ok || token != "tok" {
		t.Fatalf("expected tok, got %q ok=%v", token, ok)
	}

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	empty.AddCookie(&http.Cookie{Name: "Authentication", Value: ""})
	if _, ok := extract(empty); ok {
		t.Fatal("extractor accepted an empty cookie value")
	}
}
