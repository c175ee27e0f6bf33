package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orlogbook/orlog-api/internal/model"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type stubAuthService struct {
	principals map[string]*model.Principal
}

func (s *stubAuthService) ValidateToken(_ context.Context, token string) (*model.Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, apperrors.Unauthorized("invalid or expired token", nil)
}

func newTestEngine(roles ...model.Role) (*gin.Engine, *stubAuthService) {
	gin.SetMode(gin.TestMode)

	svc := &stubAuthService{principals: map[string]*model.Principal{
		"admin-token":   {UserID: "u-admin", Email: "a@x.org", Role: model.RoleAdmin},
		"nurse-token":   {UserID: "u-nurse", Email: "n@x.org", Role: model.RoleNurse},
		"surgeon-token": {UserID: "u-surgeon", Email: "s@x.org", Role: model.RoleSurgeon},
	}}

	engine := gin.New()
	group := engine.Group("", NewAuthMiddleware(svc).Authenticate())
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/probe", func(c *gin.Context) {
		principal, _ := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID})
	})
	return engine, svc
}

func doRequest(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	engine, _ := newTestEngine()

	w := doRequest(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	engine, _ := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	engine, _ := newTestEngine()

	w := doRequest(engine, "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateSetsPrincipal(t *testing.T) {
	engine, _ := newTestEngine()

	w := doRequest(engine, "nurse-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-nurse")
}

func TestRequireRoleDenies(t *testing.T) {
	engine, _ := newTestEngine(model.RoleAdmin)

	w := doRequest(engine, "nurse-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access denied, required role: admin")
}

func TestRequireRoleAllows(t *testing.T) {
	engine, _ := newTestEngine(model.RoleNurse, model.RoleAdmin)

	for _, token := range []string{"nurse-token", "admin-token"} {
		w := doRequest(engine, token)
		assert.Equal(t, http.StatusOK, w.Code, token)
	}

	w := doRequest(engine, "surgeon-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "required role: nurse or admin")
}
