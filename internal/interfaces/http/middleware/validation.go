package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/bucketledger/backend/internal/domain/ledger"
	"github.com/bucketledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator: field errors use JSON names,
// and the ledger enums get their own tags (bucket_type, ledger_kind, tx_status).
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return RegisterValidators(v)
}

// RegisterValidators installs the ledger tags on v
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	validators := map[string]validator.Func{
		"bucket_type": func(fl validator.FieldLevel) bool {
			return ledger.BucketType(fl.Field().String()).IsValid()
		},
		"ledger_kind": func(fl validator.FieldLevel) bool {
			return ledger.TransactionType(fl.Field().String()).IsValid()
		},
		"tx_status": func(fl validator.FieldLevel) bool {
			return ledger.TransactionStatus(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// FormatValidationErrors turns binding errors into a validation response.
// Errors that are not field validation errors yield a response without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "nefield":
		return "Must differ from " + e.Param()
	case "bucket_type":
		return "Must be one of: debit, credit, savings"
	case "ledger_kind":
		return "Must be one of: withdrawal, deposit"
	case "tx_status":
		return "Must be one of: pending, completed, failed"
	default:
		return "Invalid value"
	}
}
