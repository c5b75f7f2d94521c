package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/repository"
)

// outcome maps store sentinels to the error the caller should see
type outcome map[error]*errs.AppError

// fromStore converts a store error, anything unmapped is internal.
func fromStore(err error, known outcome) error {
	for sentinel, appErr := range known {
		if errors.Is(err, sentinel) {
			return appErr
		}
	}
	return errs.InternalError(err)
}

var (
	categoryNotFound    = errs.NotFound("Category not found")
	categoryExists      = errs.Conflict("A category with this name already exists")
	businessNotFound    = errs.NotFound("Business not found")
	businessExists      = errs.Conflict("A business with this name already exists")
	sectionNotFound     = errs.NotFound("Menu section not found")
	menuItemNotFound    = errs.NotFound("Menu item not found")
	cartItemNotFound    = errs.NotFound("Cart item not found")
	userNotFound        = errs.NotFound("User not found")
	adminNotFound       = errs.NotFound("Admin not found")
	orderNotFound       = errs.NotFound("Order not found")
	emailTaken          = errs.Conflict("A user with this email already exists")
	invalidCredentials  = errs.Unauthorized("Invalid credentials")
	invalidQuantity     = errs.Validation(fmt.Sprintf("Quantity must be between 1 and %d", models.MaxQuantity))
	invalidPrice        = errs.Validation(fmt.Sprintf("Price must be between 1 and %d", models.MaxPrice))
	emptyOrder          = errs.Validation("An order must contain at least one item")
	orderTooLarge       = errs.Validation("Order total exceeds the allowed maximum")
	categoryInUse       = errs.Conflict("Category still has businesses, move or delete them first")
	businessHasOrders   = errs.Conflict("Business has orders and cannot be deleted")
	adminHasOrders      = errs.Conflict("Admin has placed orders and cannot be deleted")
	businessRefsMissing = errs.NotFound("Category or admin not found")
	orderRefsMissing    = errs.NotFound("User, address or business not found")
)

func validateName(name string, minLen int) error {
	if strings.TrimSpace(name) == "" {
		return errs.Validation("Name is required")
	}
	if utf8.RuneCountInString(name) < minLen {
		return errs.Validation(fmt.Sprintf("Name must be at least %d characters long", minLen))
	}
	return nil
}

func validQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= models.MaxQuantity
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
