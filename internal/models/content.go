package models

import (
	"encoding/json"
	"time"
)

// Site content keys.
const (
	ContentKeyPrice              = "price"
	ContentKeyBkashNumber        = "bkash_number"
	ContentKeyProductName        = "product_name"
	ContentKeyProductDescription = "product_description"
	ContentKeyVideoURL           = "video_url"
	ContentKeyVideoPoster        = "video_poster"
	ContentKeyMetaPixelID        = "meta_pixel_id"
	ContentKeyReviews            = "reviews"
	ContentKeyReviewsSettings    = "reviews_settings"
	ContentKeyFAQ                = "faq"
	ContentKeyTableOfContents    = "table_of_contents"
	ContentKeyPreviewPages       = "preview_pages"
)

// DefaultPrice is shown when no price has been saved.
const DefaultPrice = "280"

// SiteContentEntry is one row of the site_content key/value table.
type SiteContentEntry struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedBy *string         `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Review is a customer testimonial.
type Review struct {
	Name      string   `json:"name"`
	Review    string   `json:"review"`
	Rating    int      `json:"rating"`
	ImageURLs []string `json:"image_urls"`
}

// ReviewsSettings controls the testimonial carousel.
type ReviewsSettings struct {
	AutoSlideSeconds   int `json:"autoSlideSeconds"`
	MobileCardsPerView int `json:"mobileCardsPerView"`
}

// FAQItem is a question and answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TocItem is a table of contents entry.
type TocItem struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// PreviewPage is a sample page image of the e-book.
type PreviewPage struct {
	ImageURL string `json:"image_url"`
}

// SiteContent is the typed view over every site_content key.
type SiteContent struct {
	Price              string          `json:"price"`
	BkashNumber        string          `json:"bkash_number"`
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description"`
	VideoURL           string          `json:"video_url"`
	VideoPoster        string          `json:"video_poster"`
	MetaPixelID        string          `json:"meta_pixel_id"`
	Reviews            []Review        `json:"reviews"`
	ReviewsSettings    ReviewsSettings `json:"reviews_settings"`
	FAQ                []FAQItem       `json:"faq"`
	TableOfContents    []TocItem       `json:"table_of_contents"`
	PreviewPages       []PreviewPage   `json:"preview_pages"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`
}
