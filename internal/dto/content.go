package dto

// UpdateSettingsRequest saves the scalar storefront settings in one call.
// Nil fields are left untouched.
type UpdateSettingsRequest struct {
	Price              *string `json:"price" validate:"omitempty,max=20"`
	BkashNumber        *string `json:"bkash_number" validate:"omitempty,max=20"`
	ProductName        *string `json:"product_name" validate:"omitempty,max=200"`
	ProductDescription *string `json:"product_description" validate:"omitempty,max=2000"`
	VideoURL           *string `json:"video_url" validate:"omitempty,max=2000"`
	VideoPoster        *string `json:"video_poster" validate:"omitempty,max=2000"`
	MetaPixelID        *string `json:"meta_pixel_id" validate:"omitempty,max=40"`
}
