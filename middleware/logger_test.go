package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		level  logrus.Level
	}{
		{status: http.StatusOK, level: logrus.InfoLevel},
		{status: http.StatusNotFound, level: logrus.WarnLevel},
		{status: http.StatusInternalServerError, level: logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			log, hook := test.NewNullLogger()
			router := gin.New()
			router.Use(Logger(log))
			router.GET("/things", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things", nil))

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.status, entry.Data["status"])
			assert.Equal(t, "/things", entry.Data["path"])
			assert.Equal(t, http.MethodGet, entry.Data["method"])
		})
	}
}
