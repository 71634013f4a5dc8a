package controllers

import (
	ez_uuid "github.com/hearth-ledger/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}
