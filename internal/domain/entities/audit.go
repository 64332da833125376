package entities

import "time"

// Audit actions recorded by the services.
const (
	AuditActionImport             = "gedcom_import"
	AuditActionRelationshipCreate = "relationship_create"
	AuditActionRelationshipDelete = "relationship_delete"
	AuditActionPersonDelete       = "person_delete"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Subject   string         `json:"subject,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
