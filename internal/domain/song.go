package domain

// Song is one entry in a service's director-curated song list.
type Song struct {
	Name        string `json:"name" validate:"required"`
	Artist      string `json:"artist"`
	Tone        string `json:"tone"`
	YouTubeLink string `json:"youtube_link" validate:"omitempty,url"`
}

// SetSongListRequest replaces a service's song list wholesale. DirectorID
// identifies the caller; only a director assigned to the service may set
// its list.
type SetSongListRequest struct {
	DirectorID string `json:"director_id" validate:"required"`
	Songs      []Song `json:"songs" validate:"required,min=1,dive"`
}
