package resilience

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Guard puts the routes behind b. Responses with a 5xx status count as
// failures; while b is open requests get 503 with a Retry-After header.
func Guard(b *Breaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		done, err := b.Allow()
		if err != nil {
			wait := int(math.Ceil(b.RetryAfter().Seconds()))
			if wait < 1 {
				wait = 1
			}
			c.Header("Retry-After", strconv.Itoa(wait))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "storage unavailable, retry later",
			})
			return
		}

		defer func() {
			if e := recover(); e != nil {
				done(false)
				panic(e)
			}
		}()
		c.Next()
		done(c.Writer.Status() < http.StatusInternalServerError)
	}
}
