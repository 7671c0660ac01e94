package handler

import (
	"log"
	"net/http"

	"api-share-bite/apperr"

	"github.com/gin-gonic/gin"
)

// respondError แปลง error จาก coordinator เป็น HTTP response
// error ฝั่ง business จะมี status กับข้อความของตัวเอง นอกนั้นถือว่าเป็น 500
// และไม่ส่งรายละเอียดภายในออกไปให้ client
func respondError(c *gin.Context, err error, fallback string) {
	statusCode := apperr.HTTPStatus(err)
	if statusCode == http.StatusInternalServerError {
		log.Printf("%s %s error: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(statusCode, gin.H{
		"error": apperr.MessageOf(err, fallback),
		"kind":  string(apperr.KindOf(err)),
	})
}
