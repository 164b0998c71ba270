package jikan

// External API response shapes. These types are the only place the remote
// schema is trusted; everything downstream consumes domain types produced by
// the mapper.

type listResponse struct {
	Data []AnimeData `json:"data"`
}

type singleResponse struct {
	Data AnimeData `json:"data"`
}

// AnimeData is one raw catalogue record as returned by the API
type AnimeData struct {
	MalID    int         `json:"mal_id"`
	Title    string      `json:"title"`
	Synopsis string      `json:"synopsis"`
	Episodes int         `json:"episodes"`
	Score    float64     `json:"score"`
	Status   string      `json:"status"`
	Type     string      `json:"type"`
	Images   imageFormat `json:"images"`
	Genres   []genreData `json:"genres"`
	Aired    airedDates  `json:"aired"`
}

type imageFormat struct {
	JPG imageSet `json:"jpg"`
}

type imageSet struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

type genreData struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

type airedDates struct {
	From string `json:"from"` // ISO 8601, may be empty
}
