package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

// ErrInsufficientBalance is returned when a debit would take a
	// wallet below zero. The balance row is never written in that case.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
