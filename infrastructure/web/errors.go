package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pair-programming-backend/domains/user/domain"
	"pair-programming-backend/shared/common/logger"
)

const internalErrorDetail = "Internal server error"

// ValidationDetail describes one rejected request field.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeError maps domain errors onto status codes; anything unexpected is logged and hidden.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found."})
	case errors.Is(err, domain.ErrUserAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User already registered."})
	case errors.Is(err, domain.ErrInvalidUser):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationDetail{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}})
	default:
		logger.Error("Request failed",
			logger.WithString("path", c.FullPath()),
			logger.WithRequestID(c.Request.Context()),
			logger.WithError(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": internalErrorDetail})
	}
}

// writeBindError reports a malformed or invalid request body as 422.
func writeBindError(c *gin.Context, err error) {
	var details []ValidationDetail

	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			details = append(details, ValidationDetail{
				Loc:  []string{"body", strings.ToLower(fe.Field())},
				Msg:  validationMessage(fe),
				Type: fe.Tag(),
			})
		}
	case errors.Is(err, io.EOF):
		details = append(details, ValidationDetail{Loc: []string{"body"}, Msg: "Field required", Type: "missing"})
	case errors.As(err, &syntaxErr):
		details = append(details, ValidationDetail{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
	case errors.As(err, &typeErr):
		details = append(details, ValidationDetail{Loc: []string{"body", typeErr.Field}, Msg: "Input should be a valid " + typeErr.Type.String(), Type: "type_error"})
	default:
		details = append(details, ValidationDetail{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"})
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "String should have at least " + fe.Param() + " character"
	default:
		return "Invalid value"
	}
}
