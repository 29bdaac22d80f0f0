package handler

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/movieticket/internal/model"
)

// Home 电影目录页：全部 / 搜索 / 按类型筛选，?movie= 打开详情
//
// q 优先于 genre；q 为空白时等同于清空搜索。
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))
	genre := strings.TrimSpace(c.Query("genre"))
	selectedID := strings.TrimSpace(c.Query("movie"))

	genres, err := h.Catalog.Genres(ctx)
	if err != nil {
		// 类型加载失败不影响页面，下拉框只保留 All Genres
		log.Printf("[Catalog] 加载类型失败: %v", err)
		_ = c.Error(err)
		genres = []string{}
	}

	list := url.Values{}
	var (
		movies []model.Movie
		banner string
		notice string
	)
	switch {
	case query != "":
		genre = ""
		list.Set("q", query)
		movies, err = h.Catalog.Search(ctx, query)
		if err != nil {
			banner = "Search failed. Please try again."
		} else if len(movies) == 0 {
			notice = fmt.Sprintf(`No movies found matching "%s"`, query)
		}
	case genre != "":
		list.Set("genre", genre)
		movies, err = h.Catalog.ByGenre(ctx, genre)
		if err != nil {
			banner = "Failed to filter movies. Please try again."
		} else if len(movies) == 0 {
			notice = fmt.Sprintf(`No movies found in genre "%s"`, genre)
		}
	default:
		movies, err = h.Catalog.Movies(ctx)
		if err != nil {
			banner = "Failed to load movies. Please make sure the API server is running at " + h.Catalog.BaseURL()
		}
	}
	if err != nil {
		log.Printf("[Catalog] 加载电影失败: %v", err)
		_ = c.Error(err)
		movies = nil
	}

	var selected *model.Movie
	if selectedID != "" && banner == "" {
		if m, ok := model.FindMovie(movies, selectedID); ok {
			selected = &m
		} else if m, err := h.Catalog.Movie(ctx, selectedID); err != nil {
			log.Printf("[Catalog] 加载电影详情失败 (ID: %s): %v", selectedID, err)
			_ = c.Error(err)
			banner = "Failed to load movie details."
		} else {
			selected = &m
		}
	}

	title := h.Config.SiteName
	if selected != nil {
		title = selected.Title + " - " + h.Config.SiteName
	}

	c.HTML(http.StatusOK, "catalog.html", h.RenderData(c, gin.H{
		"Title":     title,
		"Query":     query,
		"Genre":     genre,
		"Genres":    genres,
		"Movies":    movies,
		"ListQuery": list,
		"Error":     banner,
		"Notice":    notice,
		"Selected":  selected,
	}))
}
