package like

import "errors"

// Like is identified by the (UserID, VacationID) pair.
type Like struct {
	UserID     int64 `json:"user_id"`
	VacationID int64 `json:"vacation_id"`
}

var (
	ErrAlreadyLiked = errors.New("user has already liked this vacation")
	// ErrNotFound covers a missing like on unlike and a missing user or vacation on like.
	ErrNotFound = errors.New("like not found")
)

type Request struct {
	VacationID int64 `json:"vacation_id" binding:"required,min=1"`
}
