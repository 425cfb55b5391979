package middleware

import (
	"github.com/gin-gonic/gin"
)

func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求中的语言（从查询参数）
		lang := c.DefaultQuery("lang", "en") // 默认是英语
		if lang != "en" && lang != "id" {
			lang = "en" // 无效语言回退英文
		}

		c.Set("lang", lang)
		c.Next()
	}
}
