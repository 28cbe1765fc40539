package handlers

import (
	"strings"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateReserve(req ReserveRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(req.ProductID) == "" {
		errs = append(errs, ValidationError{Field: "productId", Description: "productId is required"})
	}
	if req.Quantity < 1 {
		errs = append(errs, ValidationError{Field: "quantity", Description: "quantity must be an integer of at least 1"})
	}
	return errs
}
