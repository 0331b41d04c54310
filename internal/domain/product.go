package domain

import (
	"encoding/json"
	"math"
)

// Product represents a catalog product as returned by the backend. It is
// remote-authoritative and immutable on the client within one fetch cycle.
type Product struct {
	ID            string     `json:"product_id"`
	Title         string     `json:"title"`
	BrandID       string     `json:"brand_id,omitempty"`
	BrandName     string     `json:"brand_name"`
	PriceMin      float64    `json:"price_min"`
	OriginalPrice float64    `json:"original_price,omitempty"`
	Images        []ImageRef `json:"images,omitempty"`
	InStock       bool       `json:"available"`
	URL           string     `json:"url,omitempty"`
}

// UnmarshalJSON decodes a product, defaulting InStock to true when the
// backend omits the availability field.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		InStock *bool `json:"available"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.InStock == nil {
		p.InStock = true
	} else {
		p.InStock = *aux.InStock
	}
	return nil
}

// HasDiscount reports whether the product should display a discount.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice > p.PriceMin && p.PriceMin > 0
}

// DiscountPercent returns the derived discount percentage, rounded to the
// nearest whole percent. Zero when no discount applies. The percentage is
// always derived, never stored.
func (p *Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.PriceMin) / p.OriginalPrice * 100))
}

// PrimaryImage returns the URL of the first image, or empty when none exist.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// ImageRef is a single product image reference. The backend serializes
// images either as bare URL strings or as objects carrying a url/src field;
// both shapes decode into the same struct.
type ImageRef struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts either "https://..." or {"url": "..."} / {"src": "..."}.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}

	var obj struct {
		URL string `json:"url"`
		Src string `json:"src"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.URL != "" {
		r.URL = obj.URL
	} else {
		r.URL = obj.Src
	}
	return nil
}

// Brand is a brand aggregate entry from the catalog.
type Brand struct {
	ID           string `json:"brand_id"`
	Name         string `json:"brand_name"`
	ProductCount int    `json:"product_count"`
}

// Category is a category aggregate entry from the catalog.
type Category struct {
	Name         string  `json:"category_name"`
	ProductCount int     `json:"product_count"`
	Percentage   float64 `json:"percentage,omitempty"`
	AvgPrice     float64 `json:"avg_price,omitempty"`
}
