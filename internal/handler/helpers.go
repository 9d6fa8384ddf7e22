package handler

import (
	"errors"
	"net/http"
	"reflect"

	"khmercafe/internal/apierror"
	"khmercafe/internal/domain"

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
// Returns false and writes the error response if validation fails;
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

// errorStatus maps each domain failure kind to its HTTP status and stable
// machine-readable code. Unknown errors become an opaque 500.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{domain.ErrIngredientNotFound, http.StatusNotFound, "ingredient_not_found"},
	{domain.ErrShiftNotFound, http.StatusNotFound, "shift_not_found"},
	{domain.ErrPaymentInsufficient, http.StatusUnprocessableEntity, "payment_insufficient"},
	{domain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{domain.ErrIngredientDeleted, http.StatusConflict, "ingredient_deleted"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrAlreadyVoided, http.StatusConflict, "already_voided"},
	{domain.ErrShiftAlreadyOpen, http.StatusConflict, "shift_already_open"},
	{domain.ErrShiftAlreadyClosed, http.StatusConflict, "shift_already_closed"},
	{domain.ErrItemUnavailable, http.StatusBadRequest, "item_unavailable"},
	{domain.ErrEmptyOrder, http.StatusBadRequest, "empty_order"},
	{domain.ErrInvalidRate, http.StatusBadRequest, "invalid_rate"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
}

// writeError maps a service error to its HTTP response. Internal errors are
// never echoed to the client.
func writeError(c *gin.Context, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierror.NewWithCode(m.code, err.Error()))
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}
