package repository

import "errors"

var (
	ErrNotFound  = errors.New("data tidak ditemukan")
	ErrDuplicate = errors.New("data sudah ada")
	// ErrConflict is returned when a guarded update no longer matches, e.g. the
	// order left the expected status in the meantime.
	ErrConflict = errors.New("data telah berubah")
)
