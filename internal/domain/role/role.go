package role

import "errors"

// System roles are seeded at startup and cannot be changed through the API.
const (
	UserID  int64 = 1
	AdminID int64 = 2

	UserName  = "User"
	AdminName = "Admin"
)

type Role struct {
	ID   int64  `json:"role_id"`
	Name string `json:"role_name"`
}

var (
	ErrNotFound   = errors.New("role not found")
	ErrNameExists = errors.New("role name already exists")
	ErrSystemRole = errors.New("system roles cannot be modified")
	ErrInUse      = errors.New("role is assigned to users")
)

type Request struct {
	Name string `json:"role_name" binding:"required,min=2,max=50"`
}

func IsSystem(id int64) bool {
	return id == UserID || id == AdminID
}
