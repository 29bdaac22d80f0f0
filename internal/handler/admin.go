package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/user/movieticket/internal/model"
	"github.com/user/movieticket/internal/utils"
)

const (
	sessionEditingID = "editing_id"
	flashSuccess     = "success"
	flashError       = "error"
)

// adminPage 管理后台页面数据
type adminPage struct {
	Movies    []model.Movie
	LoadErr   error
	Form      model.MovieForm
	EditingID string
	Flashes   Flashes
	FormError string
}

// AdminDashboard 管理后台：电影表格 + 新增/编辑表单
func (h *Handler) AdminDashboard(c *gin.Context) {
	session := sessions.Default(c)
	page := adminPage{Flashes: popFlashes(session)}
	page.EditingID, _ = session.Get(sessionEditingID).(string)

	page.Movies, page.LoadErr = h.Catalog.Movies(c.Request.Context())
	if page.LoadErr != nil {
		log.Printf("[Admin] 加载电影失败: %v", page.LoadErr)
		_ = c.Error(page.LoadErr)
	} else if page.EditingID != "" {
		if m, ok := model.FindMovie(page.Movies, page.EditingID); ok {
			page.Form = model.FormFromMovie(m)
		} else {
			// 正在编辑的电影已不存在，回到新增模式
			session.Delete(sessionEditingID)
			page.EditingID = ""
			page.Flashes.Error = append(page.Flashes.Error, "Movie not found")
		}
	}

	saveSession(session)
	h.renderAdmin(c, page)
}

// AdminMovieEdit 进入编辑模式
func (h *Handler) AdminMovieEdit(c *gin.Context) {
	id := c.Param("id")
	session := sessions.Default(c)

	movies, err := h.Catalog.Movies(c.Request.Context())
	switch {
	case err != nil:
		log.Printf("[Admin] 加载电影失败: %v", err)
		session.AddFlash("Failed to load movies: "+utils.ErrorMessage(err), flashError)
	default:
		if _, ok := model.FindMovie(movies, id); ok {
			session.Set(sessionEditingID, id)
		} else {
			session.AddFlash("Movie not found", flashError)
		}
	}

	saveSession(session)
	c.Redirect(http.StatusFound, "/admin")
}

// AdminMovieCancel 取消编辑，回到新增模式
func (h *Handler) AdminMovieCancel(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionEditingID)
	saveSession(session)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// AdminMovieSubmit 提交表单：编辑模式 PUT，否则 POST
func (h *Handler) AdminMovieSubmit(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessions.Default(c)
	editingID, _ := session.Get(sessionEditingID).(string)

	var form model.MovieForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		log.Printf("[Admin] 表单解析失败: %v", err)
		h.rejectForm(c, form, editingID, "releaseYear, duration, rating and price must be numbers")
		return
	}
	form.Normalize()
	if msgs := validateMovieForm(&form); len(msgs) > 0 {
		h.rejectForm(c, form, editingID, strings.Join(msgs, ", "))
		return
	}

	movie := form.ToMovie()
	if editingID != "" {
		updated, err := h.Catalog.Update(ctx, editingID, movie)
		if err != nil {
			log.Printf("[Admin] 更新电影失败 (ID: %s): %v", editingID, err)
			_ = c.Error(err)
			h.rejectForm(c, form, editingID, utils.ErrorMessage(err))
			return
		}
		session.Delete(sessionEditingID)
		session.AddFlash(fmt.Sprintf(`Movie "%s" updated successfully!`, updated.Title), flashSuccess)
	} else {
		created, err := h.Catalog.Create(ctx, movie)
		if err != nil {
			log.Printf("[Admin] 创建电影失败: %v", err)
			_ = c.Error(err)
			h.rejectForm(c, form, editingID, utils.ErrorMessage(err))
			return
		}
		session.AddFlash(fmt.Sprintf(`Movie "%s" created successfully!`, created.Title), flashSuccess)
	}

	saveSession(session)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// AdminMovieDeleteConfirm 删除确认页
func (h *Handler) AdminMovieDeleteConfirm(c *gin.Context) {
	id := c.Param("id")
	session := sessions.Default(c)

	movies, err := h.Catalog.Movies(c.Request.Context())
	if err != nil {
		log.Printf("[Admin] 加载电影失败: %v", err)
		session.AddFlash("Failed to load movies: "+utils.ErrorMessage(err), flashError)
		saveSession(session)
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	movie, ok := model.FindMovie(movies, id)
	if !ok {
		session.AddFlash("Movie not found", flashError)
		saveSession(session)
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	token, err := utils.IssueConfirmToken(h.Config.AppSecret, movie.ID, movie.Title, h.Config.ConfirmTTL)
	if err != nil {
		log.Printf("[Admin] %v", err)
		session.AddFlash("Failed to delete movie: "+err.Error(), flashError)
		saveSession(session)
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	c.HTML(http.StatusOK, "admin_delete.html", h.RenderData(c, gin.H{
		"Title": "Delete Movie - " + h.Config.SiteName,
		"Movie": movie,
		"Token": token,
	}))
}

// AdminMovieDelete 校验确认令牌后删除
func (h *Handler) AdminMovieDelete(c *gin.Context) {
	id := c.Param("id")
	session := sessions.Default(c)

	claims, err := utils.VerifyConfirmToken(h.Config.AppSecret, c.PostForm("token"), id)
	if err == nil && !h.Confirmations.Consume(claims) {
		err = fmt.Errorf("%w: token already used", utils.ErrInvalidConfirmToken)
	}
	if err != nil {
		log.Printf("[Admin] 删除确认无效 (ID: %s): %v", id, err)
		session.AddFlash("Failed to delete movie: confirmation expired, please try again", flashError)
		saveSession(session)
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	if err := h.Catalog.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[Admin] 删除电影失败 (ID: %s): %v", id, err)
		_ = c.Error(err)
		session.AddFlash("Failed to delete movie: "+utils.ErrorMessage(err), flashError)
	} else {
		session.AddFlash(fmt.Sprintf(`Movie "%s" deleted successfully!`, claims.Title), flashSuccess)
		if editingID, _ := session.Get(sessionEditingID).(string); editingID == id {
			session.Delete(sessionEditingID)
		}
	}

	saveSession(session)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// rejectForm 保留提交的内容和编辑状态，重新渲染后台
func (h *Handler) rejectForm(c *gin.Context, form model.MovieForm, editingID, msg string) {
	page := adminPage{
		Form:      form,
		EditingID: editingID,
		FormError: "Operation failed: " + msg,
	}
	page.Movies, page.LoadErr = h.Catalog.Movies(c.Request.Context())
	h.renderAdmin(c, page)
}

func (h *Handler) renderAdmin(c *gin.Context, page adminPage) {
	editing := page.EditingID != ""
	mode := model.FormAdding
	if editing {
		mode = model.FormEditing
	}

	data := gin.H{
		"Title":     "Admin Dashboard - " + h.Config.SiteName,
		"Movies":    page.Movies,
		"Form":      page.Form,
		"Mode":      mode,
		"Editing":   editing,
		"EditingID": page.EditingID,
		"Flashes":   page.Flashes,
		"FormError": page.FormError,
	}
	if page.LoadErr != nil {
		data["LoadError"] = "Failed to load movies: " + utils.ErrorMessage(page.LoadErr)
	}
	c.HTML(http.StatusOK, "admin.html", h.RenderData(c, data))
}
