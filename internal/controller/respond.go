package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/service"
)

// RegisterValidation makes validation errors report JSON field names.
func RegisterValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	}
}

// statusFor maps business errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotDeletable),
		errors.Is(err, service.ErrStaleStatus),
		errors.Is(err, service.ErrOrderExists),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrFinalState),
		errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrCustomerInactive),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrSelfModify):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes the error reply. Field level problems become 422 with an errors map.
func fail(c *gin.Context, err error) {
	var fe dto.FieldErrors
	if errors.As(err, &fe) {
		failFields(c, fe)
		return
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		failFields(c, validationMessages(ve))
		return
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		msg := "format permintaan tidak valid"
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "flash": dto.Error(msg)})
		return
	}

	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "terjadi kesalahan pada server"
	}
	c.JSON(code, gin.H{"error": msg, "flash": dto.Error(msg)})
}

func failFields(c *gin.Context, fe dto.FieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "data tidak valid",
		"errors": fe,
		"flash":  dto.Error("Periksa kembali isian formulir"),
	})
}

func validationMessages(ve validator.ValidationErrors) dto.FieldErrors {
	out := dto.FieldErrors{}
	for _, fe := range ve {
		field := fe.Field()
		// nested fields such as items[0].quantity keep their path
		if ns := fe.Namespace(); strings.Count(ns, ".") > 1 {
			field = ns[strings.Index(ns, ".")+1:]
		}
		if _, exists := out[field]; exists {
			continue
		}
		switch fe.Tag() {
		case "required":
			out[field] = "wajib diisi"
		case "email":
			out[field] = "format email tidak valid"
		case "min":
			out[field] = "minimal " + fe.Param()
		case "max":
			out[field] = "maksimal " + fe.Param()
		case "gt":
			out[field] = "harus lebih besar dari " + fe.Param()
		case "lte":
			out[field] = "maksimal " + fe.Param()
		case "oneof":
			out[field] = "harus salah satu dari: " + fe.Param()
		default:
			out[field] = "tidak valid"
		}
	}
	return out
}

// bindJSON binds and validates the body; an empty body counts as a bad request.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		fail(c, err)
		return false
	}
	return true
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		msg := "id tidak valid"
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "flash": dto.Error(msg)})
		return 0, false
	}
	return id, true
}

func ok(c *gin.Context, code int, data any, flash *dto.Flash) {
	body := gin.H{"data": data}
	if flash != nil {
		body["flash"] = flash
	}
	c.JSON(code, body)
}
