package model

import "strings"

// FormMode 管理表单模式
type FormMode string

const (
	FormAdding  FormMode = "adding"
	FormEditing FormMode = "editing"
)

// MovieForm 管理后台提交的电影表单，cast 为逗号分隔的字符串
type MovieForm struct {
	Title       string  `form:"title" validate:"required,max=200"`
	Genre       string  `form:"genre" validate:"required,max=100"`
	Director    string  `form:"director" validate:"required,max=200"`
	ReleaseYear int     `form:"releaseYear" validate:"gte=1888,lte=2100"`
	Duration    int     `form:"duration" validate:"gte=1,lte=999"`
	Rating      float64 `form:"rating" validate:"finite,gte=0,lte=10"`
	Price       float64 `form:"price" validate:"finite,gte=0"`
	Description string  `form:"description" validate:"max=2000"`
	Cast        string  `form:"cast"`
	PosterURL   string  `form:"posterUrl" validate:"omitempty,url"`
}

// Normalize 去除首尾空白
func (f *MovieForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Director = strings.TrimSpace(f.Director)
	f.Description = strings.TrimSpace(f.Description)
	f.Cast = strings.TrimSpace(f.Cast)
	f.PosterURL = strings.TrimSpace(f.PosterURL)
}

// CastList 按逗号拆分演员，丢弃空名字
func (f *MovieForm) CastList() []string {
	cast := []string{}
	for _, name := range strings.Split(f.Cast, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cast = append(cast, name)
		}
	}
	return cast
}

// ToMovie 转换为提交给 API 的电影（不含 ID）
func (f *MovieForm) ToMovie() Movie {
	return Movie{
		Title:       f.Title,
		Genre:       f.Genre,
		Director:    f.Director,
		ReleaseYear: f.ReleaseYear,
		Duration:    f.Duration,
		Rating:      f.Rating,
		Price:       f.Price,
		Description: f.Description,
		Cast:        f.CastList(),
		PosterURL:   f.PosterURL,
	}
}

// FormFromMovie 用已有电影填充表单（编辑模式）
func FormFromMovie(m Movie) MovieForm {
	return MovieForm{
		Title:       m.Title,
		Genre:       m.Genre,
		Director:    m.Director,
		ReleaseYear: m.ReleaseYear,
		Duration:    m.Duration,
		Rating:      m.Rating,
		Price:       m.Price,
		Description: m.Description,
		Cast:        strings.Join(m.Cast, ", "),
		PosterURL:   m.PosterURL,
	}
}
