package utils

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageParams are the page/limit listing controls shared by the admin
// endpoints.
type PageParams struct {
	Page  int
	Limit int
}

func ParsePageParams(c *fiber.Ctx) PageParams {
	p := PageParams{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", defaultPageSize),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p
}

func (p PageParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope applies the window to a query.
func (p PageParams) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.offset()).Limit(p.Limit)
}
