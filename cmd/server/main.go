package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/user/movieticket/internal/config"
	"github.com/user/movieticket/internal/handler"
	"github.com/user/movieticket/internal/middleware"
	"github.com/user/movieticket/internal/router"
	"github.com/user/movieticket/internal/service"
	"github.com/user/movieticket/internal/utils"
	"github.com/user/movieticket/web"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 后端 API 客户端与服务
	apiClient := utils.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout)
	catalog := service.NewCatalogService(apiClient)
	monitor := service.NewHealthMonitor(apiClient, cfg.HealthInterval)
	monitor.Start(ctx)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件（编辑状态与 flash 消息）
	r.Use(router.Sessions(cfg.AppSecret, cfg.CookieSecure))

	// 加载模板
	tmpl, err := router.LoadTemplates(web.Templates())
	if err != nil {
		log.Fatalf("加载模板失败: %v", err)
	}
	r.HTMLRender = tmpl

	// 静态文件
	r.StaticFS("/static", http.FS(web.Static()))

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	if cfg.RateLimitEnabled {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	h, err := handler.NewHandler(cfg, catalog, monitor)
	if err != nil {
		log.Fatalf("初始化处理器失败: %v", err)
	}

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.APITimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("服务器启动于 http://localhost:%s (API: %s)", cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	<-ctx.Done()
	log.Println("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
