package models

import "errors"

// ErrNotFound is returned by commerce and store backends when a row or key is missing.
var ErrNotFound = errors.New("not found")

type Product struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Price       int64  `json:"price" yaml:"price"` // minor units
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url"`
}
