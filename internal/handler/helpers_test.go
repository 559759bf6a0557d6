package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate(t *testing.T) {
	var req dto.CreateTicketRequest

	c, w := newTestContext(`{"title":`)
	assert.False(t, bindAndValidate(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(`{"title":"ab","description":"x","client_id":"nope"}`)
	assert.False(t, bindAndValidate(c, &req))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	c, w = newTestContext(`{"title":"Pressure sensor drift","description":"readings off","client_id":"5f8e2f64-30f4-4a3d-9c3e-0a4f6f0a2b11"}`)
	assert.True(t, bindAndValidate(c, &req))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBindAndValidateDecimalTags(t *testing.T) {
	// decimal.Decimal fields must not panic the validator.
	var req dto.CreatePartRequest
	c, w := newTestContext(`{"name":"Thermal fuse","reference":"TF-10A","unit_price":"4.90"}`)
	require.True(t, bindAndValidate(c, &req))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4.9", req.UnitPrice.String())
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apierror.Validation("delta", "must be non-zero"), http.StatusUnprocessableEntity},
		{apierror.NotFound("part", "x"), http.StatusNotFound},
		{apierror.Conflict("already closed"), http.StatusConflict},
		{apierror.InsufficientStock("TF-10A", 1, 5), http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := newTestContext(`{}`)
		writeError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, "for %v", tc.err)
	}
}

func TestWriteErrorOpaqueInternal(t *testing.T) {
	c, w := newTestContext(`{}`)
	writeError(c, assert.AnError)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestPathID(t *testing.T) {
	c, w := newTestContext(`{}`)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok := pathID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, _ = newTestContext(`{}`)
	c.Params = gin.Params{{Key: "id", Value: "5f8e2f64-30f4-4a3d-9c3e-0a4f6f0a2b11"}}
	id, ok := pathID(c)
	assert.True(t, ok)
	assert.Equal(t, "5f8e2f64-30f4-4a3d-9c3e-0a4f6f0a2b11", id.String())
}
