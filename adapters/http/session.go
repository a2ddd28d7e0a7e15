package http

import (
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/soundfolio/internal/application/usecase/editor"
	"github.com/khoahotran/soundfolio/pkg/apperror"
)

// currentSession resolves the caller's editor session, hydrating it on first
// use. On failure the error is queued on c and ok is false.
func currentSession(c *gin.Context, registry *editor.Registry) (*editor.Session, bool) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return nil, false
	}
	session, err := registry.Get(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return session, true
}
