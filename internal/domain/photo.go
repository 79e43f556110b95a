package domain

type PhotoURLs struct {
	Small   string `json:"small"`
	Regular string `json:"regular"`
	Full    string `json:"full,omitempty"`
}

type PhotoUser struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Photo mirrors the subset of an Unsplash photo record the client renders.
type Photo struct {
	ID             string    `json:"id"`
	URLs           PhotoURLs `json:"urls"`
	AltDescription *string   `json:"alt_description"`
	Description    *string   `json:"description,omitempty"`
	User           PhotoUser `json:"user"`
}

func (p Photo) ThumbnailURL() string { return p.URLs.Small }
func (p Photo) RegularURL() string   { return p.URLs.Regular }
func (p Photo) AuthorName() string   { return p.User.Name }

// Caption prefers the human description and falls back to the generated alt text.
func (p Photo) Caption() string {
	if p.Description != nil && *p.Description != "" {
		return *p.Description
	}
	if p.AltDescription != nil {
		return *p.AltDescription
	}
	return ""
}

type GalleryPage struct {
	Photos     []Photo `json:"photos"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Query      string  `json:"query"`
}
