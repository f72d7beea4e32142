package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const (
	defaultBrandName   = "Home Doctor"
	defaultOrderPath   = "/order"
	schemaContext      = "https://schema.org"
	youtubeEmbedFormat = "https://www.youtube-nocookie.com/embed/%s?rel=0&modestbranding=1"
)

type siteContentReader interface {
	All(ctx context.Context) (*models.SiteContent, error)
}

type publicURLResolver interface {
	ResolvePublicURL(value string) string
}

// LandingServiceConfig names the public site the landing page links to.
type LandingServiceConfig struct {
	BaseURL   string
	BrandName string
	OrderPath string
}

// LandingService composes the public landing page from site content.
type LandingService struct {
	content siteContentReader
	media   publicURLResolver
	cfg     LandingServiceConfig
}

// NewLandingService constructs a LandingService.
func NewLandingService(content siteContentReader, media publicURLResolver, cfg LandingServiceConfig) *LandingService {
	if cfg.BrandName == "" {
		cfg.BrandName = defaultBrandName
	}
	if cfg.OrderPath == "" {
		cfg.OrderPath = defaultOrderPath
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &LandingService{content: content, media: media, cfg: cfg}
}

// Page returns everything the landing page renders.
func (s *LandingService) Page(ctx context.Context) (*dto.LandingPage, error) {
	content, err := s.content.All(ctx)
	if err != nil {
		return nil, err
	}

	page := &dto.LandingPage{
		Price:              content.Price,
		BkashNumber:        content.BkashNumber,
		ProductName:        content.ProductName,
		ProductDescription: content.ProductDescription,
		Hero:               s.hero(content.VideoURL, content.VideoPoster),
		ReviewsSettings:    content.ReviewsSettings,
		FAQ:                content.FAQ,
		TableOfContents:    content.TableOfContents,
		MetaPixelID:        content.MetaPixelID,
		OrderPath:          s.cfg.OrderPath,
	}

	page.Reviews = make([]models.Review, 0, len(content.Reviews))
	for _, review := range content.Reviews {
		images := make([]string, 0, len(review.ImageURLs))
		for _, img := range review.ImageURLs {
			images = append(images, s.media.ResolvePublicURL(img))
		}
		review.ImageURLs = images
		page.Reviews = append(page.Reviews, review)
	}

	page.PreviewPages = make([]models.PreviewPage, 0, len(content.PreviewPages))
	for _, p := range content.PreviewPages {
		page.PreviewPages = append(page.PreviewPages, models.PreviewPage{ImageURL: s.media.ResolvePublicURL(p.ImageURL)})
	}

	page.StructuredData = []map[string]interface{}{s.productSchema(content)}
	if faq := faqSchema(content.FAQ); faq != nil {
		page.StructuredData = append(page.StructuredData, faq)
	}
	return page, nil
}

func (s *LandingService) hero(videoURL, poster string) dto.LandingHero {
	hero := dto.LandingHero{
		VideoURL:  s.media.ResolvePublicURL(videoURL),
		PosterURL: s.media.ResolvePublicURL(poster),
	}
	if id := YouTubeVideoID(hero.VideoURL); id != "" {
		hero.YouTubeID = id
		hero.EmbedURL = strings.Replace(youtubeEmbedFormat, "%s", url.PathEscape(id), 1)
		hero.ThumbnailURL = "https://i.ytimg.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
		if hero.PosterURL == "" {
			hero.PosterURL = hero.ThumbnailURL
		}
	}
	return hero
}

func (s *LandingService) productSchema(content *models.SiteContent) map[string]interface{} {
	name := content.ProductName
	if name == "" {
		name = s.cfg.BrandName
	}
	product := map[string]interface{}{
		"@context":    schemaContext,
		"@type":       "Product",
		"name":        name,
		"description": content.ProductDescription,
		"brand":       map[string]interface{}{"@type": "Brand", "name": s.cfg.BrandName},
	}
	if price, ok := parsePrice(content.Price); ok {
		product["offers"] = map[string]interface{}{
			"@type":         "Offer",
			"priceCurrency": "BDT",
			"price":         price,
			"url":           s.cfg.BaseURL + s.cfg.OrderPath,
			"availability":  "https://schema.org/InStock",
		}
	}
	return product
}

func faqSchema(items []models.FAQItem) map[string]interface{} {
	entities := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if item.Question == "" || item.Answer == "" {
			continue
		}
		entities = append(entities, map[string]interface{}{
			"@type": "Question",
			"name":  item.Question,
			"acceptedAnswer": map[string]interface{}{
				"@type": "Answer",
				"text":  item.Answer,
			},
		})
	}
	if len(entities) == 0 {
		return nil
	}
	return map[string]interface{}{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// parsePrice keeps digits and dots of a display price such as "৳280".
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// YouTubeVideoID extracts the video id from youtu.be, watch, embed and shorts
// links. It returns "" for anything else.
func YouTubeVideoID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch host {
	case "youtu.be":
		if len(parts) > 0 {
			return parts[0]
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for i, part := range parts {
			if (part == "embed" || part == "shorts") && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return ""
}
