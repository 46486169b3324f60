// Package dto contains the request and response shapes exchanged over the HTTP API
package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// MessageResponse is the body of operations that only report success
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListQuery carries the common paging and search query parameters
type ListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// PaginatedResponse is the envelope of every paged listing
type PaginatedResponse[T any] struct {
	Success bool  `json:"success"`
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Data    []T   `json:"data"`
}

// NewPaginatedResponse fills the count and page math for a page of results
func NewPaginatedResponse[T any](data []T, total int64, page, limit int) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginatedResponse[T]{
		Success: true,
		Count:   len(data),
		Total:   total,
		Page:    page,
		Pages:   pages,
		Data:    data,
	}
}

// Amount decodes either a JSON number or a numeric string
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = Amount(v)
	return nil
}
