package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

func rbacStatus(t *testing.T, claims *models.JWTClaims, paramID string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/resource/"+paramID, nil)
	c.Request = req
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	called := false
	RBAC(allowed...)(c)
	if !c.IsAborted() {
		called = true
	}
	if called {
		return http.StatusOK
	}
	return w.Code
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "usr-1", Role: models.RoleAdmin}
	assert.Equal(t, http.StatusOK, rbacStatus(t, claims, "other", string(models.RoleAdmin)))
}

func TestRBACRejectsOtherRoles(t *testing.T) {
	claims := &models.JWTClaims{UserID: "usr-1", Role: models.RoleStudent}
	assert.Equal(t, http.StatusForbidden, rbacStatus(t, claims, "other", string(models.RoleAdmin)))
}

func TestRBACSelfAccess(t *testing.T) {
	claims := &models.JWTClaims{UserID: "usr-1", Role: models.RoleStudent}
	assert.Equal(t, http.StatusOK, rbacStatus(t, claims, "usr-1", string(models.RoleAdmin), SelfRole))
	assert.Equal(t, http.StatusForbidden, rbacStatus(t, claims, "usr-2", string(models.RoleAdmin), SelfRole))
}

func TestRBACRequiresClaims(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, rbacStatus(t, nil, "usr-1", string(models.RoleAdmin)))
}
