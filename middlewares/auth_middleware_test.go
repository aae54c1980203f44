package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RamaAlqdri/sehatin/middlewares"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const secret = "mw-secret"

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		id, role, ok := middlewares.CurrentUser(c)
		if !ok {
			c.String(http.StatusTeapot, "no identity")
			return
		}
		c.String(http.StatusOK, id.String()+" "+role)
	})
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(secret, time.Minute, id.String(), "u@example.com", role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	r := newRouter(middlewares.AuthMiddleware(secret))

	rec := serve(r, "/", "Bearer "+token(t, id, utils.RoleUser))
	if rec.Code != http.StatusOK || rec.Body.String() != id.String()+" user" {
		t.Fatalf("valid token: %d %q", rec.Code, rec.Body.String())
	}

	for name, header := range map[string]string{
		"missing":   "",
		"no bearer": token(t, id, utils.RoleUser),
		"garbage":   "Bearer nope",
	} {
		if rec := serve(r, "/", header); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d", name, rec.Code)
		}
	}

	// query tokens are only for websockets
	if rec := serve(r, "/?token="+token(t, id, utils.RoleUser), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("query token on http route: %d", rec.Code)
	}
}

func TestWSAuthMiddlewareReadsQueryToken(t *testing.T) {
	id := uuid.New()
	r := newRouter(middlewares.WSAuthMiddleware(secret))

	if rec := serve(r, "/?token="+token(t, id, utils.RoleUser), ""); rec.Code != http.StatusOK {
		t.Fatalf("query token: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddlewareRejectsNonUUIDSubject(t *testing.T) {
	tok, err := utils.GenerateJWT(secret, time.Minute, "42", "u@example.com", utils.RoleUser)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if rec := serve(newRouter(middlewares.AuthMiddleware(secret)), "/", "Bearer "+tok); rec.Code != http.StatusUnauthorized {
		t.Fatalf("numeric subject: %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	id := uuid.New()
	r := newRouter(middlewares.AuthMiddleware(secret), middlewares.RequireRole(utils.RoleAdmin))

	if rec := serve(r, "/", "Bearer "+token(t, id, utils.RoleUser)); rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: %d", rec.Code)
	}
	if rec := serve(r, "/", "Bearer "+token(t, id, utils.RoleAdmin)); rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route: %d", rec.Code)
	}
}

func TestMisconfiguredSecret(t *testing.T) {
	r := newRouter(middlewares.AuthMiddleware(""))
	if rec := serve(r, "/", "Bearer x"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("empty secret: %d", rec.Code)
	}
}
