package handler

import "roster/internal/records/models"

// ListResponse is the body of GET /api/records.
type ListResponse struct {
	Success bool            `json:"success"`
	Records []models.Record `json:"records"`
}
