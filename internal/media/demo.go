package media

// PlaceholderThumbnail is shown when an item has no thumbnail or it fails to load.
const PlaceholderThumbnail = "/placeholder.svg"

// DemoCatalogue returns the catalogue the landing page ships with, newest first.
// Each call returns a fresh slice.
func DemoCatalogue() []Item {
	return []Item{
		{ID: "1", Title: "Manchester United vs Liverpool", ThumbnailURL: "/assets/football-1.jpg", Category: CategoryFootball,
			LeagueName: "Premier League", MatchDate: "2024-01-15", TeamsLabel: "Man United vs Liverpool", IsLive: true},
		{ID: "2", Title: "Barcelona vs Real Madrid", ThumbnailURL: "/assets/football-2.jpg", Category: CategoryFootball,
			LeagueName: "La Liga", MatchDate: "2024-01-16", TeamsLabel: "Barcelona vs Real Madrid"},
		{ID: "3", Title: "Bayern Munich vs Dortmund", ThumbnailURL: "/assets/football-3.jpg", Category: CategoryFootball,
			LeagueName: "Bundesliga", MatchDate: "2024-01-17", TeamsLabel: "Bayern vs Dortmund"},
		{ID: "4", Title: "ESPN HD", ThumbnailURL: "/assets/sports-channel-1.jpg", Category: CategorySports,
			ChannelName: "ESPN", IsLive: true},
		{ID: "5", Title: "NBA League Pass", ThumbnailURL: "/assets/sports-channel-2.jpg", Category: CategorySports,
			ChannelName: "NBA TV", IsLive: true},
		{ID: "6", Title: "UFC Fight Night", ThumbnailURL: "/assets/sports-channel-3.jpg", Category: CategorySports,
			ChannelName: "UFC", IsLive: true},
		{ID: "7", Title: "The Dark Knight", ThumbnailURL: "/assets/movie-1.jpg", Category: CategoryMovies,
			Year: "2008", Rating: "9.0", DurationLabel: "2h 32m",
			Description: "When the menace known as the Joker wreaks havoc on Gotham..."},
		{ID: "8", Title: "Interstellar", ThumbnailURL: "/assets/movie-2.jpg", Category: CategoryMovies,
			Year: "2014", Rating: "8.6", DurationLabel: "2h 49m",
			Description: "A team of explorers travel through a wormhole in space..."},
		{ID: "9", Title: "Fast & Furious", ThumbnailURL: "/assets/movie-3.jpg", Category: CategoryMovies,
			Year: "2023", Rating: "7.8", DurationLabel: "2h 21m",
			Description: "Dom and his crew face their most dangerous adversary yet..."},
		{ID: "10", Title: "Breaking Bad", ThumbnailURL: "/assets/series-1.jpg", Category: CategorySeries,
			Year: "2008", Rating: "9.5", SeasonNumber: 5, EpisodeCount: 62,
			Description: "A high school chemistry teacher turned meth manufacturer..."},
		{ID: "11", Title: "House of the Dragon", ThumbnailURL: "/assets/series-2.jpg", Category: CategorySeries,
			Year: "2022", Rating: "8.9", SeasonNumber: 2, EpisodeCount: 18,
			Description: "The reign of House Targaryen begins with this prequel..."},
		{ID: "12", Title: "Stranger Things", ThumbnailURL: "/assets/series-3.jpg", Category: CategorySeries,
			Year: "2016", Rating: "8.7", SeasonNumber: 4, EpisodeCount: 34,
			Description: "When a young boy disappears, his friends uncover a mystery..."},
	}
}
