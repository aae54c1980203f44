package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/middlewares"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, utils.NewResponse(status, message, data))
}

// respondError maps the error kind to a status. Internal errors are logged
// and their text is not sent to the client.
func respondError(c *gin.Context, err error) {
	status := utils.StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}
	_ = c.Error(err)
	respond(c, status, msg, nil)
}

func badRequest(c *gin.Context, err error) {
	respond(c, http.StatusBadRequest, err.Error(), nil)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, _, ok := middlewares.CurrentUser(c)
	return id, ok
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middlewares.CtxRole) == utils.RoleAdmin
}

// targetUserID lets an admin act on the user named by the query key.
// Everyone else acts on themselves.
func targetUserID(c *gin.Context, key string) (uuid.UUID, error) {
	self, ok := currentUser(c)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing identity", utils.ErrUnauthorized)
	}
	if q := c.Query(key); q != "" && isAdmin(c) {
		return parseUUID(q, key)
	}
	return self, nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", utils.ErrInvalidInput, field)
	}
	return id, nil
}

// parseOptionalDate returns the zero time for an empty string.
func parseOptionalDate(clock utils.Clock, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return clock.ParseDate(s)
}
