package handler

import (
	"encoding/gob"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/user/movieticket/internal/config"
	"github.com/user/movieticket/internal/service"
	"github.com/user/movieticket/internal/utils"
)

func init() {
	// flash 消息以 []interface{} 存入 cookie session
	gob.Register([]interface{}{})
}

// Handler HTTP 处理器
type Handler struct {
	Config        *config.Config
	Catalog       *service.CatalogService
	Monitor       *service.HealthMonitor
	Confirmations *utils.ConfirmLedger
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, catalog *service.CatalogService, monitor *service.HealthMonitor) (*Handler, error) {
	ledger, err := utils.NewConfirmLedger(cfg.ConfirmLedgerSize)
	if err != nil {
		return nil, err
	}
	return &Handler{
		Config:        cfg,
		Catalog:       catalog,
		Monitor:       monitor,
		Confirmations: ledger,
	}, nil
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName":   h.Config.SiteName,
		"SiteUrl":    h.Config.SiteUrl,
		"Path":       c.Request.URL.Path,
		"APIBaseURL": h.Catalog.BaseURL(),
		"ActiveMenu": getActiveMenu(c.Request.URL.Path),
	}
	for k, v := range data {
		res[k] = v
	}
	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func getActiveMenu(path string) string {
	switch {
	case path == "/":
		return "catalog"
	case strings.HasPrefix(path, "/admin"):
		return "admin"
	default:
		return ""
	}
}

// Health 前端与后端健康状态
func (h *Handler) Health(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"backend": h.Monitor.Last(),
	})
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Page Not Found - " + h.Config.SiteName,
	}))
}

// Flashes 一次性提示消息
type Flashes struct {
	Success []string
	Error   []string
}

// Empty 是否没有消息
func (f Flashes) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

func popFlashes(session sessions.Session) Flashes {
	var f Flashes
	for _, v := range session.Flashes(flashSuccess) {
		if s, ok := v.(string); ok {
			f.Success = append(f.Success, s)
		}
	}
	for _, v := range session.Flashes(flashError) {
		if s, ok := v.(string); ok {
			f.Error = append(f.Error, s)
		}
	}
	return f
}

func saveSession(session sessions.Session) {
	if err := session.Save(); err != nil {
		log.Printf("[Session] 保存失败: %v", err)
	}
}
