package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type CategoryCreationData struct {
	Slug        CategorySlug
	Name        CategoryName
	Description string
}

type Category struct {
	Id          CategoryId
	Slug        CategorySlug
	Name        CategoryName
	Description string
	CreatedAt   time.Time
	ThreadCount int
}
