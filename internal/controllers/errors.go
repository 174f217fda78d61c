package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/services"
	"engraced_transport/internal/validators"
)

var statusByKind = map[services.Kind]int{
	services.KindNotFound:          http.StatusNotFound,
	services.KindConflict:          http.StatusConflict,
	services.KindUnauthorized:      http.StatusUnauthorized,
	services.KindForbidden:         http.StatusForbidden,
	services.KindBadRequest:        http.StatusBadRequest,
	services.KindIllegalTransition: http.StatusConflict,
}

// respondError writes err as {"error": msg}. Unclassified errors are logged
// and reported as a generic 500.
func respondError(c *gin.Context, err error, action string) {
	if status, ok := statusByKind[services.KindOf(err)]; ok {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"method": c.Request.Method,
	}).Errorf("%s failed", action)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func respondInvalidInput(c *gin.Context, err error, action string) {
	logrus.WithError(err).Warnf("%s: invalid input payload", action)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + validators.Describe(err)})
}
