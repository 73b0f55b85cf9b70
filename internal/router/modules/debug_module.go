package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peerpicks/peerpicks-api/internal/container"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP; internal callers bypass the limit
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
