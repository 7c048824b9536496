package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

type Resp struct {
	Code code.ErrCode `json:"code"`
	Data any          `json:"data,omitempty"`
}

func ReplyOk(ctx *gin.Context, data ...any) {
	reply(ctx, http.StatusOK, data...)
}

func ReplyCreated(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	reply(ctx, http.StatusCreated, data...)
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func reply(ctx *gin.Context, status int, data ...any) {
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(status, resp)
}

// ReplyErr writes the error envelope. msgs override the code's default message.
// Internal errors are logged in full and replied with the generic message only.
func ReplyErr(ctx *gin.Context, err error, msgs ...string) {
	c, em := code.Parse(err)
	body := gin.H{
		"code": c,
		"kind": c.Kind(),
	}

	msg := c.String()
	if c.Kind() == code.KindInternal {
		logger.Errorf(ctx, "request %s %s err: %+v", ctx.Request.Method, ctx.Request.URL.Path, err)
	} else if em != nil && em.Msg != "" {
		msg = em.Msg
	}
	if len(msgs) > 0 && c.Kind() != code.KindInternal {
		msg = msgs[0]
	}
	body["error"] = msg

	if em != nil {
		for k, v := range em.Fields {
			body[k] = v
		}
	}
	ctx.AbortWithStatusJSON(c.HTTPStatus(), body)
}

// PathID parses a positive integer path parameter.
func PathID(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, code.ParamErr.WithMsgf("invalid %s: %s", name, ctx.Param(name))
	}
	return id, nil
}
