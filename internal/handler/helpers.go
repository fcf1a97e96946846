package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/iskanderbentaleb/partenairex10/internal/apierror"
	"github.com/iskanderbentaleb/partenairex10/internal/middleware"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate binds query parameters for list endpoints.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// ownerID extracts the authenticated user id from the JWT claims.
func ownerID(c *gin.Context) uint {
	return middleware.GetClaims(c).UserID
}

// writeServiceError maps sentinel errors from the core to HTTP statuses.
// A FieldError surfaces as a per-field validation envelope so clients can
// highlight the offending input (e.g. "items[2].quantity").
func writeServiceError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		status := statusFor(err)
		if status == http.StatusUnprocessableEntity {
			c.JSON(status, apierror.NewValidation(map[string]string{
				fieldErr.Field: fieldErr.Err.Error(),
			}))
			return
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(statusFor(err), apierror.New(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrOverpayment),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrBelowSoldQuantity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrItemHasSales),
		errors.Is(err, service.ErrLinkedRecordImmutable),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
