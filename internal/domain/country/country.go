package country

import "errors"

type Country struct {
	ID   int64  `json:"country_id"`
	Name string `json:"country_name"`
}

var (
	ErrNotFound   = errors.New("country not found")
	ErrNameExists = errors.New("country name already exists")
	ErrInUse      = errors.New("country is referenced by vacations")
)

type Request struct {
	Name string `json:"country_name" binding:"required,min=2,max=80"`
}
