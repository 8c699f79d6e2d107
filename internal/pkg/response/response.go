package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 各状态码的默认错误消息
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Missing required fields",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusInternalServerError: "Unknown error",
}

// ErrorBody 错误响应结构，客户端只读取 error 字段
type ErrorBody struct {
	Error string `json:"error"`
}

// Success 成功响应，直接输出数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	if message == "" {
		message = statusMessages[status]
	}
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, ErrorBody{Error: message})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// MethodNotAllowed 请求方法不允许
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "")
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
