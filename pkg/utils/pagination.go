package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// GetPaginationParams reads ?page= and ?limit= with sane defaults.
func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	return page, limit
}

var sortableColumns = map[string]bool{
	"date":       true,
	"amount":     true,
	"category":   true,
	"created_at": true,
}

// AddSorting appends an ORDER BY clause from ?sortBy= and ?sortOrder=.
// Unknown columns are ignored so callers cannot inject SQL.
func AddSorting(r *http.Request, query string) string {
	sortBy := r.URL.Query().Get("sortBy")
	if !sortableColumns[sortBy] {
		return query
	}

	sortOrder := strings.ToUpper(r.URL.Query().Get("sortOrder"))
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	return fmt.Sprintf("%s ORDER BY %s %s", query, sortBy, sortOrder)
}
