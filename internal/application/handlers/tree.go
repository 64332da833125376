package handlers

import (
	"context"

	"github.com/ersonp/genlib/internal/domain/services"
)

// TreeHandler handles lineage queries.
type TreeHandler struct {
	service *services.FamilyTreeService
}

// NewTreeHandler creates a new TreeHandler.
func NewTreeHandler(service *services.FamilyTreeService) *TreeHandler {
	return &TreeHandler{service: service}
}

// LineageOptions configures ancestor and descendant listings.
type LineageOptions struct {
	Generations int // 0 = unlimited
}

// HandleAncestors lists the ancestors of a person.
func (h *TreeHandler) HandleAncestors(ctx context.Context, personID int64, opts LineageOptions) ([]services.TreeEntry, error) {
	return h.service.Ancestors(ctx, personID, opts.Generations)
}

// HandleDescendants lists the descendants of a person.
func (h *TreeHandler) HandleDescendants(ctx context.Context, personID int64, opts LineageOptions) ([]services.TreeEntry, error) {
	return h.service.Descendants(ctx, personID, opts.Generations)
}

// HandlePath finds how two persons are related.
func (h *TreeHandler) HandlePath(ctx context.Context, from, to int64) ([]services.PathStep, error) {
	return h.service.Path(ctx, from, to)
}
