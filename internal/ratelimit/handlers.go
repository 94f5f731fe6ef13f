package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type budget struct {
	Limit  int    `json:"limit"`
	Burst  int    `json:"burst"`
	Period string `json:"period"`
}

func budgetOf(r Rate) budget {
	return budget{Limit: r.Limit, Burst: burstOf(r), Period: r.Period.String()}
}

// HandleStatus reports the configured budgets and the limiter backend.
func (rl *RateLimiter) HandleStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ip": c.ClientIP(),
			"limits": gin.H{
				"chat": budgetOf(rl.config.Chat),
				"bulk": budgetOf(rl.config.Bulk),
			},
			"backend":   rl.backend(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func (rl *RateLimiter) backend() string {
	if rl.redisLimiter != nil {
		return "redis"
	}
	return "memory"
}
