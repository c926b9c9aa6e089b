package geo

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stadium/api/api/common"
	"stadium/api/codes"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, common.Response{
		Code:      codes.CODE_SUCCESS,
		Msg:       "success",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, common.Response{
		Code:      code,
		Msg:       msg,
		Timestamp: time.Now().Unix(),
	})
}
