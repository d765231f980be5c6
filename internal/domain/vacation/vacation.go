package vacation

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	MinPrice = 0
	MaxPrice = 10000
)

type Vacation struct {
	ID              int64     `json:"vacation_id"`
	CountryID       int64     `json:"country_id"`
	CountryName     string    `json:"country_name,omitempty"`
	Description     string    `json:"vacation_description"`
	Start           time.Time `json:"-"`
	End             time.Time `json:"-"`
	Price           float64   `json:"price"`
	PictureFileName string    `json:"picture_file_name"`
	LikesCount      int64     `json:"likes_count"`
}

// Response is the wire shape of a vacation, with dates rendered as YYYY-MM-DD
// and the caller's like state filled in.
type Response struct {
	ID              int64   `json:"vacation_id"`
	CountryID       int64   `json:"country_id"`
	CountryName     string  `json:"country_name,omitempty"`
	Description     string  `json:"vacation_description"`
	Start           string  `json:"vacation_start"`
	End             string  `json:"vacation_end"`
	Price           float64 `json:"price"`
	PictureFileName string  `json:"picture_file_name"`
	LikesCount      int64   `json:"likes_count"`
	Liked           bool    `json:"liked"`
}

func (v Vacation) ToResponse(liked bool) Response {
	return Response{
		ID:              v.ID,
		CountryID:       v.CountryID,
		CountryName:     v.CountryName,
		Description:     v.Description,
		Start:           v.Start.Format(DateLayout),
		End:             v.End.Format(DateLayout),
		Price:           v.Price,
		PictureFileName: v.PictureFileName,
		LikesCount:      v.LikesCount,
		Liked:           liked,
	}
}

var (
	ErrNotFound        = errors.New("vacation not found")
	ErrCountryNotFound = errors.New("country not found")
	ErrInvalidDate     = errors.New("dates must use the YYYY-MM-DD format")
	ErrEndBeforeStart  = errors.New("vacation_end must not be before vacation_start")
	ErrStartInPast     = errors.New("vacation_start cannot be in the past")
	ErrPriceOutOfRange = errors.New("price must be between 0 and 10000")
)

// Request is accepted both as JSON and as multipart form fields.
type Request struct {
	CountryID       int64    `json:"country_id" form:"country_id" binding:"required,min=1"`
	Description     string   `json:"vacation_description" form:"vacation_description" binding:"required,max=1000"`
	Start           string   `json:"vacation_start" form:"vacation_start" binding:"required"`
	End             string   `json:"vacation_end" form:"vacation_end" binding:"required"`
	Price           *float64 `json:"price" form:"price" binding:"required"`
	PictureFileName string   `json:"picture_file_name" form:"picture_file_name" binding:"max=255"`
}

// Input is a validated Request ready for storage.
type Input struct {
	CountryID       int64
	Description     string
	Start           time.Time
	End             time.Time
	Price           float64
	PictureFileName string
}

// Validate parses dates and checks ranges. The start-not-in-past rule only
// applies when creating; today is compared at day granularity.
func (r Request) Validate(today time.Time, creating bool) (Input, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(r.Start))
	if err != nil {
		return Input{}, ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(r.End))
	if err != nil {
		return Input{}, ErrInvalidDate
	}

	if end.Before(start) {
		return Input{}, ErrEndBeforeStart
	}

	if creating {
		y, m, d := today.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if start.Before(day) {
			return Input{}, ErrStartInPast
		}
	}

	if r.Price == nil || *r.Price < MinPrice || *r.Price > MaxPrice {
		return Input{}, ErrPriceOutOfRange
	}

	return Input{
		CountryID:       r.CountryID,
		Description:     strings.TrimSpace(r.Description),
		Start:           start,
		End:             end,
		Price:           *r.Price,
		PictureFileName: strings.TrimSpace(r.PictureFileName),
	}, nil
}
