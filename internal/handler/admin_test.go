package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/movieticket/internal/mockapi"
)

func movieForm(title string) url.Values {
	return url.Values{
		"title":       {title},
		"genre":       {"Sci-Fi"},
		"director":    {"Denis Villeneuve"},
		"releaseYear": {"2016"},
		"duration":    {"116"},
		"rating":      {"7.9"},
		"price":       {"12.50"},
		"description": {"A linguist works with the military to communicate with alien lifeforms."},
		"cast":        {"Amy Adams, Jeremy Renner, , Forest Whitaker"},
		"posterUrl":   {""},
	}
}

func rowTitles(doc *goquery.Document) []string {
	return texts(doc.Find("#movies-table tbody td.col-title"))
}

func countTitle(titles []string, title string) int {
	n := 0
	for _, t := range titles {
		if t == title {
			n++
		}
	}
	return n
}

func formMode(doc *goquery.Document) (heading, button string) {
	return strings.TrimSpace(doc.Find("#form-title").Text()), strings.TrimSpace(doc.Find("#submit-btn").Text())
}

func TestAdminDashboardLoads(t *testing.T) {
	app := newTestApp(t)
	doc, resp := app.get(t, "/admin")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := len(rowTitles(doc)); got != 6 {
		t.Fatalf("rows = %d, want 6", got)
	}
	if got := strings.TrimSpace(doc.Find(`tr[data-id="2"] td.col-id`).Text()); got != "2" {
		t.Fatalf("id column = %q", got)
	}
	if h, b := formMode(doc); h != "Add New Movie" || b != "Add Movie" {
		t.Fatalf("form = %q / %q", h, b)
	}
}

func TestAdminCreateThenReloadShowsMovieOnce(t *testing.T) {
	app := newTestApp(t)

	doc, _ := app.post(t, "/admin/movies", movieForm("Arrival"))
	if got := strings.TrimSpace(doc.Find(".banner-success").Text()); got != `Movie "Arrival" created successfully!` {
		t.Fatalf("flash = %q", got)
	}
	if n := countTitle(rowTitles(doc), "Arrival"); n != 1 {
		t.Fatalf("Arrival appears %d times, want 1", n)
	}
	if app.reqs.count("POST", "/api/movies") != 1 || app.reqs.countMethod("PUT") != 0 {
		t.Fatalf("requests = %v", app.reqs.hits)
	}

	created, ok := app.store.Get("7")
	if !ok {
		t.Fatalf("movie not stored")
	}
	if len(created.Cast) != 3 || created.Cast[2] != "Forest Whitaker" || created.Price != 12.5 {
		t.Fatalf("stored movie = %+v", created)
	}

	// 刷新后 flash 消失，电影仍只出现一次
	doc, _ = app.get(t, "/admin")
	if doc.Find(".banner-success").Length() != 0 {
		t.Fatalf("flash shown twice")
	}
	if n := countTitle(rowTitles(doc), "Arrival"); n != 1 {
		t.Fatalf("after reload Arrival appears %d times", n)
	}

	catalog, _ := app.get(t, "/")
	if n := countTitle(cardTitles(catalog), "Arrival"); n != 1 {
		t.Fatalf("catalog shows Arrival %d times", n)
	}
}

func TestAdminEditSubmitIssuesSinglePut(t *testing.T) {
	app := newTestApp(t)

	doc, _ := app.get(t, "/admin/movies/3/edit")
	if h, b := formMode(doc); h != "Edit Movie" || b != "Update Movie" {
		t.Fatalf("form = %q / %q", h, b)
	}
	if v, _ := doc.Find(`input[name="title"]`).Attr("value"); v != "Inception" {
		t.Fatalf("title input = %q", v)
	}
	if v, _ := doc.Find(`input[name="cast"]`).Attr("value"); v != "Leonardo DiCaprio, Joseph Gordon-Levitt, Elliot Page" {
		t.Fatalf("cast input = %q", v)
	}
	if doc.Find(`tr.editing[data-id="3"]`).Length() != 1 {
		t.Fatalf("edited row not highlighted")
	}

	doc, _ = app.post(t, "/admin/movies", movieForm("Inception (IMAX)"))
	if got := strings.TrimSpace(doc.Find(".banner-success").Text()); got != `Movie "Inception (IMAX)" updated successfully!` {
		t.Fatalf("flash = %q", got)
	}
	if app.reqs.count("PUT", "/api/movies/3") != 1 {
		t.Fatalf("PUT count = %d, want 1", app.reqs.count("PUT", "/api/movies/3"))
	}
	if n := app.reqs.count("POST", "/api/movies"); n != 0 {
		t.Fatalf("POST issued %d times during edit", n)
	}
	if got := rowTitles(doc); countTitle(got, "Inception (IMAX)") != 1 || countTitle(got, "Inception") != 0 || len(got) != 6 {
		t.Fatalf("rows = %v", got)
	}
	if h, _ := formMode(doc); h != "Add New Movie" {
		t.Fatalf("form should return to adding mode, got %q", h)
	}
}

func TestAdminCancelEdit(t *testing.T) {
	app := newTestApp(t)

	app.get(t, "/admin/movies/1/edit")
	doc, _ := app.post(t, "/admin/movies/cancel", nil)
	if h, b := formMode(doc); h != "Add New Movie" || b != "Add Movie" {
		t.Fatalf("form = %q / %q", h, b)
	}

	app.post(t, "/admin/movies", movieForm("Dune"))
	if app.reqs.count("POST", "/api/movies") != 1 || app.reqs.countMethod("PUT") != 0 {
		t.Fatalf("requests = %v", app.reqs.hits)
	}
}

func TestAdminEditUnknownMovie(t *testing.T) {
	app := newTestApp(t)
	doc, _ := app.get(t, "/admin/movies/999/edit")
	if got := strings.TrimSpace(doc.Find(".banner-error").Text()); got != "Movie not found" {
		t.Fatalf("banner = %q", got)
	}
	if h, _ := formMode(doc); h != "Add New Movie" {
		t.Fatalf("form = %q", h)
	}
}

func TestAdminValidationKeepsInput(t *testing.T) {
	app := newTestApp(t)

	form := movieForm("   ")
	form.Set("releaseYear", "1700")
	doc, resp := app.post(t, "/admin/movies", form)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := "Operation failed: title is required, releaseYear must be at least 1888"
	if got := strings.TrimSpace(doc.Find(".form-panel .banner-error").Text()); got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
	if v, _ := doc.Find(`input[name="director"]`).Attr("value"); v != "Denis Villeneuve" {
		t.Fatalf("director input = %q, submitted values must be kept", v)
	}
	if app.reqs.countMethod("POST") != 0 {
		t.Fatalf("invalid form reached the API")
	}
}

func TestAdminNonNumericInput(t *testing.T) {
	app := newTestApp(t)

	form := movieForm("Arrival")
	form.Set("duration", "two hours")
	doc, _ := app.post(t, "/admin/movies", form)

	if got := doc.Find(".form-panel .banner-error").Text(); !strings.HasPrefix(strings.TrimSpace(got), "Operation failed:") {
		t.Fatalf("error = %q", got)
	}
	if app.reqs.countMethod("POST") != 0 {
		t.Fatalf("invalid form reached the API")
	}
}

func TestAdminUpdateFailureKeepsEditing(t *testing.T) {
	app := newTestApp(t)

	app.get(t, "/admin/movies/5/edit")
	if err := app.store.Delete("5"); err != nil {
		t.Fatalf("delete behind the frontend's back: %v", err)
	}

	doc, _ := app.post(t, "/admin/movies", movieForm("Interstellar 2"))
	if got := strings.TrimSpace(doc.Find(".form-panel .banner-error").Text()); got != "Operation failed: Movie not found" {
		t.Fatalf("error = %q", got)
	}
	if h, b := formMode(doc); h != "Edit Movie" || b != "Update Movie" {
		t.Fatalf("form = %q / %q, editing state must be kept", h, b)
	}
	if v, _ := doc.Find(`input[name="title"]`).Attr("value"); v != "Interstellar 2" {
		t.Fatalf("title input = %q", v)
	}
	if app.reqs.count("POST", "/api/movies") != 0 {
		t.Fatalf("failed update fell back to POST")
	}
}

func TestAdminDeleteFlow(t *testing.T) {
	app := newTestApp(t)

	doc, _ := app.get(t, "/admin/movies/4/delete")
	if got := strings.TrimSpace(doc.Find(".confirm-question").Text()); got != `Are you sure you want to delete "Pulp Fiction"?` {
		t.Fatalf("question = %q", got)
	}
	token, ok := doc.Find(`input[name="token"]`).Attr("value")
	if !ok || token == "" {
		t.Fatalf("confirmation token missing")
	}
	if app.reqs.countMethod("DELETE") != 0 {
		t.Fatalf("DELETE issued before confirmation")
	}

	doc, _ = app.post(t, "/admin/movies/4/delete", url.Values{"token": {token}})
	if got := strings.TrimSpace(doc.Find(".banner-success").Text()); got != `Movie "Pulp Fiction" deleted successfully!` {
		t.Fatalf("flash = %q", got)
	}
	if doc.Find(`#movies-table tr[data-id="4"]`).Length() != 0 {
		t.Fatalf("deleted movie still in table")
	}
	if app.reqs.count("DELETE", "/api/movies/4") != 1 {
		t.Fatalf("DELETE count = %d", app.reqs.count("DELETE", "/api/movies/4"))
	}

	catalog, _ := app.get(t, "/")
	if countTitle(cardTitles(catalog), "Pulp Fiction") != 0 {
		t.Fatalf("deleted movie still in catalog")
	}
	crime, _ := app.get(t, "/?genre=Crime")
	if len(cardTitles(crime)) != 0 {
		t.Fatalf("deleted movie still in genre filter")
	}
}

func TestAdminDeleteRequiresConfirmation(t *testing.T) {
	app := newTestApp(t)

	confirm, _ := app.get(t, "/admin/movies/1/delete")
	tokenForOne, _ := confirm.Find(`input[name="token"]`).Attr("value")

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"token for another movie", tokenForOne},
		{"garbage", "abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := app.post(t, "/admin/movies/4/delete", url.Values{"token": {tt.token}})
			if got := strings.TrimSpace(doc.Find(".banner-error").Text()); !strings.HasPrefix(got, "Failed to delete movie:") {
				t.Fatalf("banner = %q", got)
			}
			if doc.Find(`#movies-table tr[data-id="4"]`).Length() != 1 {
				t.Fatalf("movie deleted without confirmation")
			}
		})
	}
	if app.reqs.countMethod("DELETE") != 0 {
		t.Fatalf("DELETE issued without confirmation: %v", app.reqs.hits)
	}
}

func TestAdminDeleteEditedMovieResetsForm(t *testing.T) {
	app := newTestApp(t)

	app.get(t, "/admin/movies/3/edit")
	confirm, _ := app.get(t, "/admin/movies/3/delete")
	token, _ := confirm.Find(`input[name="token"]`).Attr("value")

	doc, _ := app.post(t, "/admin/movies/3/delete", url.Values{"token": {token}})
	if h, b := formMode(doc); h != "Add New Movie" || b != "Add Movie" {
		t.Fatalf("form = %q / %q", h, b)
	}
	if doc.Find(".banner-error").Length() != 0 {
		t.Fatalf("unexpected error: %s", doc.Find(".banner-error").Text())
	}
}

func TestAdminDeleteMissingMovie(t *testing.T) {
	app := newTestApp(t)

	confirm, _ := app.get(t, "/admin/movies/2/delete")
	token, _ := confirm.Find(`input[name="token"]`).Attr("value")
	if err := app.store.Delete("2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	doc, _ := app.post(t, "/admin/movies/2/delete", url.Values{"token": {token}})
	if got := strings.TrimSpace(doc.Find(".banner-error").Text()); got != "Failed to delete movie: Movie not found" {
		t.Fatalf("banner = %q", got)
	}
}

func TestAdminRejectsNonFiniteNumbers(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  string
	}{
		{"price", "Inf", "Operation failed: price must be a finite number"},
		{"price", "-Inf", "Operation failed: price must be a finite number"},
		{"rating", "NaN", "Operation failed: rating must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			app := newTestApp(t)
			form := movieForm("Arrival")
			form.Set(tt.field, tt.value)

			doc, resp := app.post(t, "/admin/movies", form)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := strings.TrimSpace(doc.Find(".form-panel .banner-error").Text()); got != tt.want {
				t.Fatalf("error = %q, want %q", got, tt.want)
			}
			if app.reqs.countMethod("POST") != 0 {
				t.Fatalf("invalid form reached the API")
			}
		})
	}
}

// renamingBackend 模拟会规范化标题的后端
func renamingBackend(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				body["title"] = strings.ToUpper(body["title"].(string))
				data, _ := json.Marshal(body)
				r.Body = io.NopCloser(bytes.NewReader(data))
				r.ContentLength = int64(len(data))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func TestAdminFlashUsesServerTitle(t *testing.T) {
	store := mockapi.NewMemoryStore(mockapi.SeedMovies())
	backend := httptest.NewServer(renamingBackend(mockapi.New(store, log.New(io.Discard, "", 0))))
	t.Cleanup(backend.Close)
	frontURL, client := newFrontend(t, newTestConfig(backend.URL+"/api"))
	app := &testApp{url: frontURL, client: client, store: store, reqs: &requestLog{}}

	doc, _ := app.post(t, "/admin/movies", movieForm("Arrival"))
	if got := strings.TrimSpace(doc.Find(".banner-success").Text()); got != `Movie "ARRIVAL" created successfully!` {
		t.Fatalf("create flash = %q", got)
	}

	app.get(t, "/admin/movies/1/edit")
	doc, _ = app.post(t, "/admin/movies", movieForm("Redemption"))
	if got := strings.TrimSpace(doc.Find(".banner-success").Text()); got != `Movie "REDEMPTION" updated successfully!` {
		t.Fatalf("update flash = %q", got)
	}
}

func TestAdminDeleteTokenSingleUse(t *testing.T) {
	app := newTestApp(t)

	confirm, _ := app.get(t, "/admin/movies/4/delete")
	token, _ := confirm.Find(`input[name="token"]`).Attr("value")

	app.post(t, "/admin/movies/4/delete", url.Values{"token": {token}})
	if _, err := app.store.Create(mockapi.SeedMovies()[3]); err != nil {
		t.Fatalf("restore movie: %v", err)
	}

	doc, _ := app.post(t, "/admin/movies/4/delete", url.Values{"token": {token}})
	if got := strings.TrimSpace(doc.Find(".banner-error").Text()); got != "Failed to delete movie: confirmation expired, please try again" {
		t.Fatalf("banner = %q", got)
	}
	if app.reqs.count("DELETE", "/api/movies/4") != 1 {
		t.Fatalf("DELETE count = %d, want 1", app.reqs.count("DELETE", "/api/movies/4"))
	}
}
