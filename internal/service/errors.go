package service

import (
	"errors"

	"grocery-admin/internal/repository"
)

// Business errors, mapped to status codes and flash messages by the controllers.
var (
	ErrNotFound           = repository.ErrNotFound
	ErrInvalidStatus      = errors.New("status tidak dikenal")
	ErrInvalidTransition  = errors.New("transisi status tidak valid")
	ErrFinalState         = errors.New("status pesanan sudah final dan tidak dapat diubah")
	ErrStaleStatus        = errors.New("status pesanan telah berubah, muat ulang halaman")
	ErrNotDeletable       = errors.New("hanya pesanan yang dibatalkan yang dapat dihapus")
	ErrUnknownAction      = errors.New("aksi tidak dikenal")
	ErrEmptySelection     = errors.New("tidak ada data yang dipilih")
	ErrOrderExists        = errors.New("pesanan sudah pernah dibuat")
	ErrCustomerInactive   = errors.New("pelanggan tidak aktif")
	ErrProductUnavailable = errors.New("produk tidak tersedia")
	ErrInsufficientStock  = errors.New("stok produk tidak mencukupi")
	ErrEmailTaken         = errors.New("email sudah terdaftar")
	ErrSelfModify         = errors.New("tidak dapat menghapus atau mengubah akses akun sendiri")
	ErrInvalidCredentials = errors.New("email atau kata sandi salah")
	ErrUnknownReport      = errors.New("laporan tidak dikenal")
)
