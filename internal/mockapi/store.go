package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/user/movieticket/internal/model"
)

var (
	ErrNotFound    = errors.New("movie not found")
	ErrDuplicateID = errors.New("movie id already exists")
)

// Store 内存电影数据，可选地持久化到 JSON 文件
type Store struct {
	mu     sync.RWMutex
	movies []model.Movie
	path   string
}

// NewStore 从 JSON 文件加载，文件不存在时以空数据启动
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore 不落盘的 Store
func NewMemoryStore(movies []model.Movie) *Store {
	s := &Store{}
	for _, m := range movies {
		s.movies = append(s.movies, cloneMovie(m))
	}
	return s
}

// Load 重新读取数据文件
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.movies = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var movies []model.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.movies = movies
	s.mu.Unlock()
	return nil
}

// Len 电影数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// List 全部电影
func (s *Store) List() []model.Movie {
	return s.filter(func(model.Movie) bool { return true })
}

// Get 按 ID 查找
func (s *Store) Get(id string) (model.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneMovie(s.movies[i]), true
	}
	return model.Movie{}, false
}

// SearchTitle 标题包含 query（不区分大小写）
func (s *Store) SearchTitle(query string) []model.Movie {
	q := strings.ToLower(query)
	return s.filter(func(m model.Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), q)
	})
}

// ByGenre 类型完全匹配（不区分大小写）
func (s *Store) ByGenre(genre string) []model.Movie {
	return s.filter(func(m model.Movie) bool {
		return strings.EqualFold(m.Genre, genre)
	})
}

// Genres 去重并排序的类型列表
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.movies))
	genres := []string{}
	for _, m := range s.movies {
		if _, ok := seen[m.Genre]; ok {
			continue
		}
		seen[m.Genre] = struct{}{}
		genres = append(genres, m.Genre)
	}
	sort.Strings(genres)
	return genres
}

// Create 新增电影，未指定 ID 时分配 max(数字ID)+1
func (s *Store) Create(m model.Movie) (model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = s.nextID()
	}
	if s.indexOf(m.ID) >= 0 {
		return model.Movie{}, ErrDuplicateID
	}

	prev := s.movies
	s.movies = append(append([]model.Movie(nil), prev...), cloneMovie(m))
	if err := s.save(); err != nil {
		s.movies = prev
		return model.Movie{}, err
	}
	return cloneMovie(m), nil
}

// Update 整体替换，ID 以路径为准
func (s *Store) Update(id string, m model.Movie) (model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Movie{}, ErrNotFound
	}
	m.ID = id

	prev := s.movies
	s.movies = append([]model.Movie(nil), prev...)
	s.movies[i] = cloneMovie(m)
	if err := s.save(); err != nil {
		s.movies = prev
		return model.Movie{}, err
	}
	return cloneMovie(m), nil
}

// Delete 删除电影
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	prev := s.movies
	next := make([]model.Movie, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	s.movies = next
	if err := s.save(); err != nil {
		s.movies = prev
		return err
	}
	return nil
}

func (s *Store) filter(keep func(model.Movie) bool) []model.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Movie{}
	for _, m := range s.movies {
		if keep(m) {
			out = append(out, cloneMovie(m))
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, m := range s.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() string {
	maxID := 0
	for _, m := range s.movies {
		if n, err := strconv.Atoi(m.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

// save 调用方需持有写锁；先写临时文件再 rename
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.movies, "", "  ")
	if err != nil {
		return fmt.Errorf("encode movies: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".movies-*.json")
	if err != nil {
		return fmt.Errorf("save movies: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save movies: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save movies: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save movies: %w", err)
	}
	return nil
}

// cloneMovie 深拷贝 cast，空 cast 始终为 []（JSON 中不为 null）
func cloneMovie(m model.Movie) model.Movie {
	m.Cast = append(make([]string, 0, len(m.Cast)), m.Cast...)
	return m
}
