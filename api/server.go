package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mlbacktest/backtest"
	"mlbacktest/config"
)

// Server HTTP服务器
type Server struct {
	engine *gin.Engine
	server *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.Config, runner *backtest.Runner) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine: engine,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: engine,
		},
	}

	s.setupRoutes(cfg, runner)
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(cfg *config.Config, runner *backtest.Runner) {
	handler := NewHandler(cfg, runner)

	api := s.engine.Group("/api/v1")
	{
		// 回测
		api.POST("/backtest/run", handler.RunBacktest)
	}

	// 健康检查
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Start 启动服务器
func (s *Server) Start() error {
	log.Printf("[API] 服务启动在 http://localhost%s\n", s.server.Addr)
	log.Println("[API] 可用接口:")
	log.Println("  POST /api/v1/backtest/run - 运行回测")
	log.Println("  GET  /health              - 健康检查")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// loggerMiddleware 日志中间件
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[API] %s %s %d %v\n", c.Request.Method, path, status, latency)
	}
}

// corsMiddleware CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
