package dto

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ghost-story/internal/domain/entity"
	apperrors "ghost-story/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusFor(entity.Success("boo")))
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(entity.Failure(apperrors.New(apperrors.CodeTimeout, "slow"))))
}

func TestAbortWithFailure_UsesErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    *apperrors.AppError
		status int
	}{
		{"from code", apperrors.New(apperrors.CodeValidation, MsgInvalidRequestBody), http.StatusBadRequest},
		{"overridden", func() *apperrors.AppError {
			e := apperrors.New(apperrors.CodeAPI, "busy")
			e.HTTPStatus = http.StatusServiceUnavailable
			return e
		}(), http.StatusServiceUnavailable},
		{"unset", &apperrors.AppError{Code: apperrors.CodeAPI, Message: "down"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/v1/stories/generate", nil)

			AbortWithFailure(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.True(t, c.IsAborted())
			assert.Contains(t, w.Body.String(), `"code":"`+string(tc.err.Code)+`"`)
		})
	}
}
