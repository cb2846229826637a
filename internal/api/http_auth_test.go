package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"herbalog/internal/authz"
	"herbalog/internal/config"
	"herbalog/internal/model"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) (*gin.Engine, *HTTPHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		DBType:          "sqlite",
		DBPath:          filepath.Join(t.TempDir(), "api.db"),
		SessionSecret:   "test-secret",
		SessionTTLHours: 1,
	}
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		t.Fatalf("failed to initialise repository: %v", err)
	}
	handler, err := NewHTTPHandler(cfg, repo)
	if err != nil {
		t.Fatalf("failed to initialise handler: %v", err)
	}

	r := gin.New()
	apiGroup := r.Group("/api")
	apiGroup.POST("/register", handler.Register)
	apiGroup.POST("/login", handler.Login)
	apiGroup.POST("/logout", handler.Logout)

	protected := apiGroup.Group("")
	protected.Use(handler.AuthMiddleware())
	protected.GET("/user", handler.Me)
	protected.GET("/admin-activities", handler.ListAdminActivities)
	protected.GET("/categories", handler.ListCategories)
	protected.GET("/categories/check-name", handler.CheckCategoryName)
	protected.GET("/products", handler.ListProducts)
	protected.GET("/products/:id/prices", handler.ListProductPrices)

	manage := protected.Group("")
	manage.Use(handler.RequireFeature(authz.FeatureManageProducts))
	manage.POST("/categories", handler.CreateCategory)
	manage.DELETE("/categories/:id", handler.DeleteCategory)
	manage.POST("/products", handler.CreateProduct)
	manage.PATCH("/products/:id", handler.UpdateProduct)
	manage.POST("/products/:id/prices", handler.SetProductPrice)

	return r, handler
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	t.Fatal("expected a session cookie in the response")
	return ""
}

func registerUser(t *testing.T, r *gin.Engine, email, password, role string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `","first_name":"Test","last_name":"User"`
	if role != "" {
		body += `,"role":"` + role + `"`
	}
	body += `}`
	w := doJSON(t, r, http.MethodPost, "/api/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering %s, got %d: %s", email, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func TestRegisterReturnsPublicUser(t *testing.T) {
	r, _ := newTestServer(t)

	cookie := registerUser(t, r, "jan@example.com", "wachtwoord1", "")
	if cookie == "" {
		t.Fatal("expected session cookie after registration")
	}

	w := doJSON(t, r, http.MethodGet, "/api/user", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/user, got %d", w.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["email"] != "jan@example.com" {
		t.Fatalf("expected email in response, got %v", payload["email"])
	}
	if payload["role"] != string(authz.RoleDistributor) {
		t.Fatalf("expected default DISTRIBUTOR role, got %v", payload["role"])
	}
	for _, forbidden := range []string{"password", "password_hash"} {
		if _, exists := payload[forbidden]; exists {
			t.Fatalf("response must not contain %q", forbidden)
		}
	}
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	r, _ := newTestServer(t)

	registerUser(t, r, "A@B.com", "wachtwoord1", "")

	body := `{"email":"a@b.com","password":"wachtwoord2","first_name":"Other","last_name":"User"}`
	w := doJSON(t, r, http.MethodPost, "/api/register", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d: %s", w.Code, w.Body.String())
	}

	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if apiErr.Code != ErrCodeEmailExists {
		t.Fatalf("expected %s, got %s", ErrCodeEmailExists, apiErr.Code)
	}
}

func TestLoginInvalidCredentialsUniform(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "jan@example.com", "wachtwoord1", "")

	unknownEmail := doJSON(t, r, http.MethodPost, "/api/login",
		`{"email":"nobody@example.com","password":"wachtwoord1"}`, "")
	wrongPassword := doJSON(t, r, http.MethodPost, "/api/login",
		`{"email":"jan@example.com","password":"verkeerd-wachtwoord"}`, "")

	for _, w := range []*httptest.ResponseRecorder{unknownEmail, wrongPassword} {
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
		var apiErr APIError
		if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
			t.Fatalf("failed to decode error: %v", err)
		}
		if apiErr.Code != ErrCodeInvalidCredentials {
			t.Fatalf("expected %s, got %s", ErrCodeInvalidCredentials, apiErr.Code)
		}
	}
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Fatal("unknown email and wrong password must be indistinguishable")
	}
}

func TestLoginMissingFields(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/api/login", `{"email":"jan@example.com"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "jan@example.com", "wachtwoord1", "")

	w := doJSON(t, r, http.MethodPost, "/api/login",
		`{"email":"JAN@EXAMPLE.COM","password":"wachtwoord1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 logging in, got %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)

	me := doJSON(t, r, http.MethodGet, "/api/user", "", cookie)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/user after login, got %d", me.Code)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	r, _ := newTestServer(t)
	cookie := registerUser(t, r, "jan@example.com", "wachtwoord1", "")

	first := doJSON(t, r, http.MethodPost, "/api/logout", "", cookie)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", first.Code)
	}

	me := doJSON(t, r, http.MethodGet, "/api/user", "", cookie)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", me.Code)
	}

	second := doJSON(t, r, http.MethodPost, "/api/logout", "", cookie)
	if second.Code != http.StatusOK {
		t.Fatalf("expected logout to stay 200 on repeat, got %d", second.Code)
	}
}

func TestWhoAmIWithoutSession(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/user", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	r, _ := newTestServer(t)
	cookie := registerUser(t, r, "jan@example.com", "wachtwoord1", "")

	sid, _, _ := strings.Cut(cookie, ".")
	forged := sid + "." + strings.Repeat("ab", 32)
	w := doJSON(t, r, http.MethodGet, "/api/user", "", forged)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged cookie, got %d", w.Code)
	}
}
