package mockapi

import "github.com/user/movieticket/internal/model"

// SeedMovies 数据文件不存在时使用的示例数据
func SeedMovies() []model.Movie {
	return []model.Movie{
		{
			ID: "1", Title: "The Shawshank Redemption", Genre: "Drama", Director: "Frank Darabont",
			ReleaseYear: 1994, Duration: 142, Rating: 9.3, Price: 12.99,
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			Cast:        []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton"},
		},
		{
			ID: "2", Title: "The Dark Knight", Genre: "Action", Director: "Christopher Nolan",
			ReleaseYear: 2008, Duration: 152, Rating: 9.0, Price: 14.99,
			Description: "Batman faces the Joker, a criminal mastermind who wants to plunge Gotham City into anarchy.",
			Cast:        []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
		},
		{
			ID: "3", Title: "Inception", Genre: "Sci-Fi", Director: "Christopher Nolan",
			ReleaseYear: 2010, Duration: 148, Rating: 8.8, Price: 13.99,
			Description: "A thief who steals corporate secrets through dream-sharing technology is given the task of planting an idea.",
			Cast:        []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
		},
		{
			ID: "4", Title: "Pulp Fiction", Genre: "Crime", Director: "Quentin Tarantino",
			ReleaseYear: 1994, Duration: 154, Rating: 8.9, Price: 11.99,
			Description: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
			Cast:        []string{"John Travolta", "Uma Thurman", "Samuel L. Jackson"},
		},
		{
			ID: "5", Title: "Interstellar", Genre: "Sci-Fi", Director: "Christopher Nolan",
			ReleaseYear: 2014, Duration: 169, Rating: 8.7, Price: 13.99,
			Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			Cast:        []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"},
		},
		{
			ID: "6", Title: "Spirited Away", Genre: "Animation", Director: "Hayao Miyazaki",
			ReleaseYear: 2001, Duration: 125, Rating: 8.6, Price: 10.99,
			Description: "A young girl wanders into a world ruled by gods, witches and spirits, where humans are changed into beasts.",
			Cast:        []string{"Rumi Hiiragi", "Miyu Irino", "Mari Natsuki"},
		},
	}
}
