package cache

import "github.com/google/uuid"

// Filter keys. The empty key addresses the unfiltered list.
const All = ""

// ByOwner keys a project list scoped to one account.
func ByOwner(id uuid.UUID) string {
	return "owner=" + id.String()
}

// ByProject keys a task or member list scoped to one project.
func ByProject(id uuid.UUID) string {
	return "project=" + id.String()
}

// OwnerFrom recovers the owner id from a ByOwner key.
func OwnerFrom(key string) (uuid.UUID, bool) {
	return idFrom(key, "owner=")
}

// ProjectFrom recovers the project id from a ByProject key.
func ProjectFrom(key string) (uuid.UUID, bool) {
	return idFrom(key, "project=")
}

func idFrom(key, prefix string) (uuid.UUID, bool) {
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(key[len(prefix):])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
