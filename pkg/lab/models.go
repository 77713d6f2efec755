package lab

import "errors"

// MaxNameLength is the longest lab name accepted
const MaxNameLength = 100

var (
	ErrLabNotFound  = errors.New("lab not found")
	ErrLabNameTaken = errors.New("lab name already exists")
)

// Lab is a named laboratory in the catalog
type Lab struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
