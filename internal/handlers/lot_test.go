// internal/handlers/lot_test.go
package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postLots(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Dispatch validation happens before any service call, so a nil
	// service is fine for these cases.
	handler := NewLotHandler(nil)
	r.POST("/lots", handler.PostLot)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lots", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostLotRejectsUnknownAction(t *testing.T) {
	w := postLots(t, `{"action": "teleport"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown action")
}

func TestPostLotRejectsMalformedBody(t *testing.T) {
	w := postLots(t, `{"action":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostLotMarkSoldRequiresLotID(t *testing.T) {
	w := postLots(t, `{"action": "mark_sold", "data": {"quantity": 5}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "lot_id")
}
