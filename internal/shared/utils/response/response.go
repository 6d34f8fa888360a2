package response

import (
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"gradehub/internal/shared/errs"
)

// MessageResponse is the body for every failure response.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes a success payload as-is.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Message writes a plain {message} body with the given status.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error maps err onto an HTTP status via the errs policy table and writes
// a {message} body. Unexpected errors get a generic message so internals
// never leak to the client.
func Error(c *gin.Context, err error) {
	if !errs.IsExpected(err) {
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}
	c.JSON(errs.Status(err), MessageResponse{Message: capitalize(err.Error())})
}

// capitalize uppercases the first rune so Go-style lowercase error strings
// read as sentence-cased client messages ("invalid credentials" ->
// "Invalid credentials").
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// AbortWithError is Error for middleware: it also stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
