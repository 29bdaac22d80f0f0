package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/user/movieticket/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	{
		admin.GET("", h.AdminDashboard)
		admin.POST("/movies", h.AdminMovieSubmit)
		admin.POST("/movies/cancel", h.AdminMovieCancel)
		admin.GET("/movies/:id/edit", h.AdminMovieEdit)
		admin.GET("/movies/:id/delete", h.AdminMovieDeleteConfirm)
		admin.POST("/movies/:id/delete", h.AdminMovieDelete)
	}

	r.NoRoute(h.NotFound)
}

// SessionName session cookie 名称
const SessionName = "mysession"

// Sessions cookie session 中间件（编辑状态与 flash 消息）
func Sessions(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   secure, // 非 HTTPS 环境必须为 false
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

// Pages 页面模板列表
var Pages = []string{"catalog", "admin", "admin_delete", "404"}

// LoadTemplates 使用 multitemplate 加载模板，每个页面 = 布局 + 局部模板 + 页面
func LoadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, "layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layout templates found")
	}

	funcMap := FuncMap()
	for _, page := range Pages {
		files := make([]string, 0, len(layouts)+len(partials)+1)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, "pages/"+page+".html")

		tmpl, err := template.New(path.Base(files[0])).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		r.Add(page+".html", tmpl)
	}

	return r, nil
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"rating": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"price": func(v float64) string {
			return "$" + strconv.FormatFloat(v, 'f', 2, 64)
		},
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
		"movieLink":  MovieLink,
		"listLink":   ListLink,
		"formNumber": FormNumber,
	}
}

// MovieLink 当前列表下打开详情的链接
func MovieLink(list url.Values, id string) string {
	q := url.Values{}
	for k, v := range list {
		q[k] = v
	}
	q.Set("movie", id)
	return "/?" + q.Encode()
}

// ListLink 关闭详情后回到的列表链接
func ListLink(list url.Values) string {
	if len(list) == 0 {
		return "/"
	}
	return "/?" + list.Encode()
}

// FormNumber 表单中的数字，零值显示为空
func FormNumber(v interface{}) string {
	switch n := v.(type) {
	case int:
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	case float64:
		if n == 0 {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
