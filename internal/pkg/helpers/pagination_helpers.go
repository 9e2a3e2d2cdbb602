package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// TotalPages is the page count for totalItems; an empty list still has one page
func TotalPages(totalItems, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems == 0 {
		return 1
	}
	return (totalItems + size - 1) / size
}

// Paginate cuts one page out of a full list
func Paginate[T any](items []T, page, size int) models.Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	start, end := CalculateSliceIndices(page, size, len(items))
	list := make([]T, end-start)
	copy(list, items[start:end])

	return models.Page[T]{
		PageList:      list,
		TotalElements: int64(len(items)),
		TotalPages:    TotalPages(len(items), size),
		PageNumber:    page,
		PageSize:      size,
	}
}
