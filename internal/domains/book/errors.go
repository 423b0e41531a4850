package book

import "errors"

var (
	// Repository errors
	ErrBookNotFound   = errors.New("book not found")
	ErrDuplicateTitle = errors.New("book with this title already exists")
)
