package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
// Lookups that find nothing return sql.ErrNoRows unwrapped; services translate it.

// ErrDuplicate is returned by writes that violate a unique constraint
// (slug, email, order ID, one pending upgrade request per user).
var ErrDuplicate = errors.New("duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
