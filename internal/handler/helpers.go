package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/ElenaG-E/temucosoft/internal/apierror"
	"github.com/ElenaG-E/temucosoft/internal/rut"
	"github.com/ElenaG-E/temucosoft/internal/service"

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

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Tenant mismatches answer 404, indistinguishable from a missing resource, so
// one tenant can never probe another's IDs.
func writeServiceError(c *gin.Context, err error) {
	var (
		stockErr      *service.InsufficientStockError
		transitionErr *service.InvalidTransitionError
		formatErr     *rut.FormatError
		checksumErr   *rut.ChecksumError
	)
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrTenantMismatch):
		c.JSON(http.StatusNotFound, apierror.New("resource not found"))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New("concurrent modification, retry the request"))
	case errors.Is(err, service.ErrProductReferenced):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &stockErr), errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEmptyDocument),
		errors.Is(err, service.ErrFutureTimestamp),
		errors.As(err, &formatErr),
		errors.As(err, &checksumErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
