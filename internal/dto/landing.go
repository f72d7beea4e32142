package dto

import "github.com/fahimunoffice-stack/her-well-being/internal/models"

// LandingHero describes the hero video block.
type LandingHero struct {
	VideoURL     string `json:"video_url,omitempty"`
	PosterURL    string `json:"poster_url,omitempty"`
	YouTubeID    string `json:"youtube_id,omitempty"`
	EmbedURL     string `json:"embed_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// LandingPage is everything the public landing page renders.
type LandingPage struct {
	Price              string                   `json:"price"`
	BkashNumber        string                   `json:"bkash_number"`
	ProductName        string                   `json:"product_name"`
	ProductDescription string                   `json:"product_description"`
	Hero               LandingHero              `json:"hero"`
	Reviews            []models.Review          `json:"reviews"`
	ReviewsSettings    models.ReviewsSettings   `json:"reviews_settings"`
	FAQ                []models.FAQItem         `json:"faq"`
	TableOfContents    []models.TocItem         `json:"table_of_contents"`
	PreviewPages       []models.PreviewPage     `json:"preview_pages"`
	MetaPixelID        string                   `json:"meta_pixel_id,omitempty"`
	OrderPath          string                   `json:"order_path"`
	StructuredData     []map[string]interface{} `json:"structured_data"`
}
