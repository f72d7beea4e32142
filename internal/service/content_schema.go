package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const (
	maxAutoSlideSeconds = 120
	defaultRating       = 5
)

// contentKeys lists every key the content store accepts, in display order.
var contentKeys = []string{
	models.ContentKeyPrice,
	models.ContentKeyBkashNumber,
	models.ContentKeyProductName,
	models.ContentKeyProductDescription,
	models.ContentKeyVideoURL,
	models.ContentKeyVideoPoster,
	models.ContentKeyMetaPixelID,
	models.ContentKeyReviews,
	models.ContentKeyReviewsSettings,
	models.ContentKeyFAQ,
	models.ContentKeyTableOfContents,
	models.ContentKeyPreviewPages,
}

func knownContentKey(key string) bool {
	for _, k := range contentKeys {
		if k == key {
			return true
		}
	}
	return false
}

// decodeSiteContent folds stored rows into the typed view. Rows that cannot be
// decoded fall back to the key's zero value instead of failing the page.
func decodeSiteContent(entries []models.SiteContentEntry) models.SiteContent {
	content := models.SiteContent{
		Price:           models.DefaultPrice,
		Reviews:         []models.Review{},
		ReviewsSettings: defaultReviewsSettings(),
		FAQ:             []models.FAQItem{},
		TableOfContents: []models.TocItem{},
		PreviewPages:    []models.PreviewPage{},
	}
	for _, entry := range entries {
		raw := entry.Value
		switch entry.Key {
		case models.ContentKeyPrice:
			if price := decodeText(raw); price != "" {
				content.Price = price
			}
		case models.ContentKeyBkashNumber:
			content.BkashNumber = decodeText(raw)
		case models.ContentKeyProductName:
			content.ProductName = decodeText(raw)
		case models.ContentKeyProductDescription:
			content.ProductDescription = decodeText(raw)
		case models.ContentKeyVideoURL:
			content.VideoURL = decodeText(raw)
		case models.ContentKeyVideoPoster:
			content.VideoPoster = decodeText(raw)
		case models.ContentKeyMetaPixelID:
			content.MetaPixelID = digitsOnly(decodeText(raw))
		case models.ContentKeyReviews:
			content.Reviews = decodeReviews(raw)
		case models.ContentKeyReviewsSettings:
			content.ReviewsSettings = decodeReviewsSettings(raw)
		case models.ContentKeyFAQ:
			content.FAQ = decodeFAQ(raw)
		case models.ContentKeyTableOfContents:
			content.TableOfContents = decodeTOC(raw)
		case models.ContentKeyPreviewPages:
			content.PreviewPages = decodePreviewPages(raw)
		default:
			continue
		}
		if content.UpdatedAt == nil || entry.UpdatedAt.After(*content.UpdatedAt) {
			updated := entry.UpdatedAt
			content.UpdatedAt = &updated
		}
	}
	return content
}

// canonicalContentValue checks the shape of an incoming value for key, then
// normalises it with the read decoders and re-encodes it in canonical form.
func canonicalContentValue(key string, raw json.RawMessage) (json.RawMessage, error) {
	if !knownContentKey(key) {
		return nil, errUnknownContentKey
	}
	if err := checkContentShape(key, raw); err != nil {
		return nil, err
	}
	var value interface{}
	switch key {
	case models.ContentKeyPrice, models.ContentKeyBkashNumber, models.ContentKeyProductName,
		models.ContentKeyProductDescription, models.ContentKeyVideoURL, models.ContentKeyVideoPoster:
		value = strings.TrimSpace(decodeText(raw))
	case models.ContentKeyMetaPixelID:
		value = digitsOnly(decodeText(raw))
	case models.ContentKeyReviews:
		value = decodeReviews(raw)
	case models.ContentKeyReviewsSettings:
		value = decodeReviewsSettings(raw)
	case models.ContentKeyFAQ:
		value = decodeFAQ(raw)
	case models.ContentKeyTableOfContents:
		value = decodeTOC(raw)
	case models.ContentKeyPreviewPages:
		value = decodePreviewPages(raw)
	default:
		return nil, errUnknownContentKey
	}
	return json.Marshal(value)
}

// checkContentShape rejects values whose JSON type does not match the key.
// Scalar keys take a string or number, list keys an array of objects (preview
// pages also take plain strings) and reviews_settings an object.
func checkContentShape(key string, raw json.RawMessage) error {
	switch key {
	case models.ContentKeyReviews, models.ContentKeyFAQ, models.ContentKeyTableOfContents, models.ContentKeyPreviewPages:
		var items []json.RawMessage
		if jsonKind(raw) != '[' || json.Unmarshal(raw, &items) != nil {
			return fmt.Errorf("%s must be a JSON array", key)
		}
		for i, item := range items {
			kind := jsonKind(item)
			if kind == '{' || (kind == '"' && key == models.ContentKeyPreviewPages) {
				continue
			}
			return fmt.Errorf("%s item %d must be an object", key, i)
		}
	case models.ContentKeyReviewsSettings:
		if jsonKind(raw) != '{' {
			return fmt.Errorf("%s must be a JSON object", key)
		}
	default:
		if kind := jsonKind(raw); kind != '"' && kind != '0' {
			return fmt.Errorf("%s must be a string or number", key)
		}
	}
	return nil
}

// jsonKind returns the leading delimiter of a JSON value, '0' for numbers and
// 0 for anything else.
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch c := raw[0]; {
	case c == '{' || c == '[' || c == '"':
		return c
	case c == '-' || (c >= '0' && c <= '9'):
		return '0'
	}
	return 0
}

// decodeText accepts a JSON string, number or boolean and returns its text.
func decodeText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

type storedReview struct {
	Name      json.RawMessage `json:"name"`
	Review    json.RawMessage `json:"review"`
	Rating    json.RawMessage `json:"rating"`
	ImageURLs []string        `json:"image_urls"`
	ImageURL  json.RawMessage `json:"image_url"`
}

func decodeReviews(raw json.RawMessage) []models.Review {
	var stored []storedReview
	if err := json.Unmarshal(raw, &stored); err != nil {
		return []models.Review{}
	}
	reviews := make([]models.Review, 0, len(stored))
	for _, item := range stored {
		review := models.Review{
			Name:      strings.TrimSpace(decodeText(item.Name)),
			Review:    strings.TrimSpace(decodeText(item.Review)),
			Rating:    normalizeRating(item.Rating),
			ImageURLs: make([]string, 0, len(item.ImageURLs)+1),
		}
		for _, u := range item.ImageURLs {
			if u = strings.TrimSpace(u); u != "" {
				review.ImageURLs = append(review.ImageURLs, u)
			}
		}
		if legacy := strings.TrimSpace(decodeText(item.ImageURL)); legacy != "" && !containsString(review.ImageURLs, legacy) {
			review.ImageURLs = append([]string{legacy}, review.ImageURLs...)
		}
		if review.Name == "" && review.Review == "" && len(review.ImageURLs) == 0 {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// normalizeRating rounds to the nearest star and clamps to 1..5. Missing or
// unparsable ratings count as five stars.
func normalizeRating(raw json.RawMessage) int {
	text := strings.TrimSpace(decodeText(raw))
	if text == "" {
		return defaultRating
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) {
		return defaultRating
	}
	return int(math.Max(1, math.Min(5, math.Round(v))))
}

func defaultReviewsSettings() models.ReviewsSettings {
	return models.ReviewsSettings{AutoSlideSeconds: 0, MobileCardsPerView: 1}
}

// decodeReviewsSettings clamps the slide interval to 0..120 seconds (0 turns
// auto sliding off) and the mobile card count to 1 or 2.
func decodeReviewsSettings(raw json.RawMessage) models.ReviewsSettings {
	settings := defaultReviewsSettings()
	var stored struct {
		AutoSlideSeconds   json.RawMessage `json:"autoSlideSeconds"`
		MobileCardsPerView json.RawMessage `json:"mobileCardsPerView"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return settings
	}
	if secs, err := strconv.ParseFloat(strings.TrimSpace(decodeText(stored.AutoSlideSeconds)), 64); err == nil && !math.IsNaN(secs) {
		settings.AutoSlideSeconds = int(math.Max(0, math.Min(maxAutoSlideSeconds, math.Round(secs))))
	}
	if strings.TrimSpace(decodeText(stored.MobileCardsPerView)) == "2" {
		settings.MobileCardsPerView = 2
	}
	return settings
}

func decodeFAQ(raw json.RawMessage) []models.FAQItem {
	var stored []struct {
		Question json.RawMessage `json:"question"`
		Answer   json.RawMessage `json:"answer"`
	}
	items := []models.FAQItem{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return items
	}
	for _, s := range stored {
		item := models.FAQItem{
			Question: strings.TrimSpace(decodeText(s.Question)),
			Answer:   strings.TrimSpace(decodeText(s.Answer)),
		}
		if item.Question == "" && item.Answer == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func decodeTOC(raw json.RawMessage) []models.TocItem {
	var stored []struct {
		Title json.RawMessage `json:"title"`
		Desc  json.RawMessage `json:"desc"`
	}
	items := []models.TocItem{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return items
	}
	for _, s := range stored {
		item := models.TocItem{
			Title: strings.TrimSpace(decodeText(s.Title)),
			Desc:  strings.TrimSpace(decodeText(s.Desc)),
		}
		if item.Title == "" && item.Desc == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// decodePreviewPages accepts both {"image_url": ...} objects and the older
// list of plain URL strings.
func decodePreviewPages(raw json.RawMessage) []models.PreviewPage {
	var stored []json.RawMessage
	pages := []models.PreviewPage{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return pages
	}
	for _, item := range stored {
		var url string
		var obj struct {
			ImageURL json.RawMessage `json:"image_url"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			url = decodeText(obj.ImageURL)
		} else {
			url = decodeText(item)
		}
		if url = strings.TrimFunc(url, unicode.IsSpace); url != "" {
			pages = append(pages, models.PreviewPage{ImageURL: url})
		}
	}
	return pages
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
