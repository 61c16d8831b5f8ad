package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = min(l, MaxLimit)
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") != "false"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = strings.Join(vals, ",")
		}
	}

	return filterReq
}

// ParseIDParam читает числовой path-параметр.
func ParseIDParam(c echo.Context, name string) (uint64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%q must be a positive integer", name))
	}
	return id, nil
}

// ParseIDQuery читает обязательный числовой query-параметр.
func ParseIDQuery(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%q is required", name))
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%q must be a positive integer", name))
	}
	return id, nil
}
