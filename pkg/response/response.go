package response

import (
	"net/http"

	"EchoBoard/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: http.StatusOK, Message: message, Data: data})
}

// Created 201 响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Code: http.StatusCreated, Message: message, Data: data})
}

// NotFound 404 响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Code: http.StatusNotFound, Message: message})
}

func Fail(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusBadRequest, Body{Code: http.StatusBadRequest, Message: message, Data: data})
}

// Error 按错误类型映射 HTTP 状态码
func Error(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(code, Body{Code: code, Message: errors.GetMessage(err)})
}
