package model

import (
	"math"
	"time"
)

// Response is the standard envelope for every API payload. Status is
// "success" or "error"; Data is omitted for errors, ErrorCode and Errors
// for successes.
type Response struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Data      interface{}       `json:"data,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	ErrorCode string            `json:"error_code,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Meta      *Meta             `json:"meta,omitempty"`
}

// Meta carries pagination information for list responses.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the window a list response covers.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// NewPagination computes the derived pagination fields for a page window.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  pages,
		HasMore:     int64(page*limit) < total,
	}
}
