package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrAccountNameNotUnique       = errors.New("the account name must be unique for the household")
	ErrCategoryNameNotUnique      = errors.New("the category name must be unique for the household")
	ErrTransactionNotUnique       = errors.New("a transaction with this external ID already exists for the account")
	ErrRecurringPatternNotUnique  = errors.New("a recurring pattern with this description already exists for the household")
	ErrAccountTypeInvalid         = errors.New("the account type must be one of bank, credit_card")
	ErrAccountInstitutionRequired = errors.New("the account must have an institution")
)
