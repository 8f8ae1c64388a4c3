package models

import (
	"strings"

	"github.com/google/uuid"
)

const (
	templateIDPrefix = "tpl-"
	sessionIDPrefix  = "ses-"
)

// shortID returns 12 hex characters from a fresh UUIDv4
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewTaskID generates a task ID namespaced by the list it is created in,
// e.g. "work-3f9a0c1b2d4e". The namespace keeps IDs unique across both
// lists after a transfer.
func NewTaskID(kind ListKind) string {
	return string(kind) + "-" + shortID()
}

// NewTemplateID generates a unique template ID
func NewTemplateID() string {
	return templateIDPrefix + shortID()
}

// NewSessionID generates a unique session record ID
func NewSessionID() string {
	return sessionIDPrefix + shortID()
}

// HasListPrefix reports whether id carries one of the list namespaces
func HasListPrefix(id string) bool {
	for _, k := range ListKinds {
		if strings.HasPrefix(id, string(k)+"-") && len(id) > len(k)+1 {
			return true
		}
	}
	return false
}
