package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint returns. Code 0 means
// success; error responses carry the HTTP status as the code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError carries an HTTP status and application code alongside the message
// so services can return typed errors that handlers map without switching.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(status int, msg string) *AppError {
	return &AppError{HTTPStatus: status, Code: status, Message: msg}
}

func NewBadRequest(msg string) *AppError   { return newAppError(http.StatusBadRequest, msg) }
func NewUnauthorized(msg string) *AppError { return newAppError(http.StatusUnauthorized, msg) }
func NewForbidden(msg string) *AppError    { return newAppError(http.StatusForbidden, msg) }
func NewNotFound(msg string) *AppError     { return newAppError(http.StatusNotFound, msg) }
func NewConflict(msg string) *AppError     { return newAppError(http.StatusConflict, msg) }
func NewServerError(msg string) *AppError  { return newAppError(http.StatusInternalServerError, msg) }

// Success sends 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

// Created sends 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

// Error maps an error to a response. An *AppError keeps its status and code;
// anything else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{Code: appErr.Code, Message: appErr.Message})
		return
	}
	fail(c, http.StatusInternalServerError, err.Error())
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Message: msg})
}

func BadRequest(c *gin.Context, msg string)   { fail(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string) { fail(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string)    { fail(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)     { fail(c, http.StatusNotFound, msg) }
func ServerError(c *gin.Context, msg string)  { fail(c, http.StatusInternalServerError, msg) }
