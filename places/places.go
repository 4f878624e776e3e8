// Package places holds the venue model and a client for the places API.
package places

import (
	"math"
	"slices"
	"strings"
)

type Place struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postalCode"`
	Category      string  `json:"category"`
	Longitude     float64 `json:"longitude"`
	Latitude      float64 `json:"latitude"`
	PhoneNumber   string  `json:"phoneNumber,omitempty"`
	Website       string  `json:"website,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	CreatorID     string  `json:"creatorId,omitempty"`
}

// CreateRequest is the body of a place creation.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	PostalCode  string  `json:"postalCode"`
	Category    string  `json:"category" validate:"required"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	Website     string  `json:"website,omitempty" validate:"omitempty,url"`
	ImageURL    string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// NewPlace builds an unsaved place owned by creatorID.
func NewPlace(req CreateRequest, creatorID string) *Place {
	p := &Place{CreatorID: creatorID}
	req.apply(p)
	return p
}

// Replace overwrites every editable field of p with req.
func (req CreateRequest) Replace(p *Place) {
	req.apply(p)
}

func (req CreateRequest) apply(p *Place) {
	p.Name = req.Name
	p.Description = req.Description
	p.Address = req.Address
	p.City = req.City
	p.PostalCode = req.PostalCode
	p.Category = req.Category
	p.Longitude = req.Longitude
	p.Latitude = req.Latitude
	p.PhoneNumber = req.PhoneNumber
	p.Website = req.Website
	p.ImageURL = req.ImageURL
}

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between p and the given point.
func (p *Place) DistanceKm(longitude, latitude float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(latitude - p.Latitude)
	dLng := rad(longitude - p.Longitude)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(p.Latitude))*math.Cos(rad(latitude))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// InCategory keeps the places whose category matches, ignoring case.
func InCategory(all []*Place, category string) []*Place {
	var out []*Place
	for _, p := range all {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Near keeps the places within distanceKm of the point, closest first.
func Near(all []*Place, longitude, latitude, distanceKm float64) []*Place {
	var out []*Place
	for _, p := range all {
		if p.DistanceKm(longitude, latitude) <= distanceKm {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *Place) int {
		da, db := a.DistanceKm(longitude, latitude), b.DistanceKm(longitude, latitude)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return out
}

// TopRated returns at most limit places, best average rating first. Places
// nobody reviewed come last.
func TopRated(all []*Place, limit int) []*Place {
	out := slices.Clone(all)
	slices.SortStableFunc(out, func(a, b *Place) int {
		switch {
		case a.AverageRating > b.AverageRating:
			return -1
		case a.AverageRating < b.AverageRating:
			return 1
		}
		return b.ReviewCount - a.ReviewCount
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
