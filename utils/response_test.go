package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runJSONError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONError(c, err)
	return w
}

func TestJSONError_AppErrorMapping(t *testing.T) {
	w := runJSONError(t, NewConflict("room is fully booked"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "error.conflict")
	assert.Contains(t, w.Body.String(), "room is fully booked")
}

func TestJSONError_PlainErrorIsInternal(t *testing.T) {
	w := runJSONError(t, fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error.internal")
}

func TestJSONError_DetailVisibility(t *testing.T) {
	cause := fmt.Errorf("dsn=root:secret@tcp")

	t.Run("development exposes the cause", func(t *testing.T) {
		SetProduction(false)
		w := runJSONError(t, NewInternal("store failure", cause))
		assert.Contains(t, w.Body.String(), "dsn=root:secret@tcp")
	})

	t.Run("production hides the cause", func(t *testing.T) {
		SetProduction(true)
		t.Cleanup(func() { SetProduction(false) })
		w := runJSONError(t, NewInternal("store failure", cause))
		assert.NotContains(t, w.Body.String(), "dsn=root:secret@tcp")
		assert.Contains(t, w.Body.String(), "store failure")
	})
}
