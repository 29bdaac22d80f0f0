package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/user/movieticket/internal/model"
	"github.com/user/movieticket/internal/utils"
)

// CatalogService 封装后端电影 REST API
//
// 每次读取都会请求后端，相同 key 的并发读取合并为一次请求。
// 写操作发出后代数（generation）递增，之后的读取不会复用写之前发起的请求。
type CatalogService struct {
	client *utils.HTTPClient
	group  singleflight.Group
	gen    atomic.Uint64
}

// NewCatalogService 创建目录服务
func NewCatalogService(client *utils.HTTPClient) *CatalogService {
	return &CatalogService{client: client}
}

// BaseURL 后端 API 地址
func (s *CatalogService) BaseURL() string {
	return s.client.BaseURL()
}

// Genres 获取类型列表
func (s *CatalogService) Genres(ctx context.Context) ([]string, error) {
	v, err := s.shared(ctx, s.key("genres"), func(ctx context.Context) (interface{}, error) {
		var genres []string
		if err := s.client.GetJSON(ctx, utils.Path("genres"), &genres); err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []string{}
		}
		return genres, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Movies 获取全部电影
func (s *CatalogService) Movies(ctx context.Context) ([]model.Movie, error) {
	return s.list(ctx, s.key("movies"), utils.Path("movies"))
}

// Search 按标题搜索，空查询等同于全部电影
func (s *CatalogService) Search(ctx context.Context, query string) ([]model.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Movies(ctx)
	}
	return s.list(ctx, s.key("search:"+query), utils.Path("movies", "search", query))
}

// ByGenre 按类型筛选，空类型等同于全部电影
func (s *CatalogService) ByGenre(ctx context.Context, genre string) ([]model.Movie, error) {
	if strings.TrimSpace(genre) == "" {
		return s.Movies(ctx)
	}
	return s.list(ctx, s.key("genre:"+genre), utils.Path("movies", "genre", genre))
}

// Movie 按 ID 获取单部电影
func (s *CatalogService) Movie(ctx context.Context, id string) (model.Movie, error) {
	var movie model.Movie
	if err := s.client.GetJSON(ctx, utils.Path("movies", id), &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// Create 新建电影（POST），ID 由后端分配
func (s *CatalogService) Create(ctx context.Context, m model.Movie) (model.Movie, error) {
	m.ID = ""
	var created model.Movie
	err := s.client.SendJSON(ctx, http.MethodPost, utils.Path("movies"), m, &created)
	s.mutated(err)
	if err != nil {
		return model.Movie{}, err
	}
	log.Printf("[Catalog] 已创建电影: %s (ID: %s)", created.Title, created.ID)
	return created, nil
}

// Update 整体更新电影（PUT）
func (s *CatalogService) Update(ctx context.Context, id string, m model.Movie) (model.Movie, error) {
	m.ID = id
	var updated model.Movie
	err := s.client.SendJSON(ctx, http.MethodPut, utils.Path("movies", id), m, &updated)
	s.mutated(err)
	if err != nil {
		return model.Movie{}, err
	}
	log.Printf("[Catalog] 已更新电影: %s (ID: %s)", updated.Title, id)
	return updated, nil
}

// Delete 删除电影
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.client.SendJSON(ctx, http.MethodDelete, utils.Path("movies", id), nil, nil)
	s.mutated(err)
	if err != nil {
		return err
	}
	log.Printf("[Catalog] 已删除电影 ID: %s", id)
	return nil
}

// mutated 写请求发出后递增代数；请求体编码失败时请求未发出，代数不变
func (s *CatalogService) mutated(err error) {
	if errors.Is(err, utils.ErrInvalidRequest) {
		return
	}
	s.gen.Add(1)
}

func (s *CatalogService) key(name string) string {
	return fmt.Sprintf("%d:%s", s.gen.Load(), name)
}

func (s *CatalogService) list(ctx context.Context, key, path string) ([]model.Movie, error) {
	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		var movies []model.Movie
		if err := s.client.GetJSON(ctx, path, &movies); err != nil {
			return nil, err
		}
		if movies == nil {
			movies = []model.Movie{}
		}
		return movies, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Movie), nil
}

// shared 合并相同 key 的并发请求，请求不随单个调用方取消
func (s *CatalogService) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
