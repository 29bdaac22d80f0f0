package model

// Movie 电影模型（与后端 REST API 的 JSON 结构一致）
type Movie struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director"`
	ReleaseYear int      `json:"releaseYear"`
	Duration    int      `json:"duration"`
	Rating      float64  `json:"rating"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Cast        []string `json:"cast"`
	PosterURL   string   `json:"posterUrl,omitempty"`
}

// FindMovie 在结果集中按 ID 查找电影
func FindMovie(movies []Movie, id string) (Movie, bool) {
	for _, m := range movies {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}

// HealthStatus 后端健康检查结果
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}
