package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/pkg/response"
)

const healthPingTimeout = 2 * time.Second

// @Summary      Health check
// @Description  Returns service status and database reachability
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func Healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := map[string]string{"status": "ok", "database": "ok"}
		if err := pingDB(c.Request.Context(), db); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeError, status))
			return
		}
		c.JSON(http.StatusOK, response.OKT(status))
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func RegisterHealthRoutes(r gin.IRouter, db *gorm.DB) {
	r.GET("/healthz", Healthz(db))
}
