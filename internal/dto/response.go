package dto

import "tarsier/pkg/types"

type PaginatedResponse[T any] struct {
	List       []T              `json:"list"`
	Pagination types.Pagination `json:"pagination"`
}
