package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerRequest struct {
	BucketType string `json:"bucket_type" validate:"required,bucket_type"`
	Kind       string `json:"kind" validate:"required,ledger_kind"`
	Status     string `json:"status" validate:"required,tx_status"`
	Name       string `json:"name" validate:"required,max=5"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestRegisterValidators(t *testing.T) {
	v := newValidator(t)

	t.Run("accepts known values", func(t *testing.T) {
		err := v.Struct(ledgerRequest{BucketType: "savings", Kind: "deposit", Status: "pending", Name: "a"})
		assert.NoError(t, err)
	})

	t.Run("rejects unknown enum values with JSON field names", func(t *testing.T) {
		err := v.Struct(ledgerRequest{BucketType: "checking", Kind: "refund", Status: "cleared", Name: "a"})
		require.Error(t, err)

		var fields []string
		for _, fe := range err.(validator.ValidationErrors) {
			fields = append(fields, fe.Field())
		}
		assert.ElementsMatch(t, []string{"bucket_type", "kind", "status"}, fields)
	})
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(ledgerRequest{BucketType: "debit", Kind: "refund", Status: "failed", Name: "too long"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-1")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Must be one of: withdrawal, deposit", messages["kind"])
	assert.Equal(t, "Must be at most 5 characters", messages["name"])
}

func TestHandleValidationError(t *testing.T) {
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req struct {
			Type string `json:"type" binding:"required,bucket_type"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"type":"checking"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"type"`)
	assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
}
