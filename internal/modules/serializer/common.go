package serializer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "store error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// WriteError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, everything else a store fault 500. The descriptive
// message always names the failed operation's entity kind.
func WriteError(c *gin.Context, err error) {
	var (
		vErr  *apperr.ValidationError
		nfErr *apperr.NotFoundError
		sErr  *apperr.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ParamErr(vErr.Msg, nil))
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, Err(http.StatusNotFound, nfErr.Error(), nil))
	case errors.As(err, &sErr):
		c.JSON(http.StatusInternalServerError, DBErr(fmt.Sprintf("store %s %s failed", sErr.Op, sErr.Entity), sErr.Err))
	default:
		c.JSON(http.StatusInternalServerError, DBErr("", err))
	}
}
