package httpapi

import (
	"net/http"
	"strconv"
)

const defaultPageSize = 20

// Page is the pagination envelope every list handler returns.
type Page struct {
	Content       []interface{} `json:"content"`
	PageNum       int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int           `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	IsLast        bool          `json:"isLast"`
}

// paginate slices all into one page per the request's "page"/"size"
// query parameters (0-indexed page, default size 20). Out-of-range
// values clamp rather than error.
func paginate(r *http.Request, all []interface{}) Page {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", defaultPageSize)
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	total := len(all)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := all[start:end]
	if content == nil {
		content = []interface{}{}
	}

	return Page{
		Content:       content,
		PageNum:       page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLast:        page >= totalPages-1,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
