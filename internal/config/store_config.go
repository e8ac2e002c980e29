package config

import "strings"

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

type StoreConfig interface {
	GetDocumentStore() string
	GetProjectID() string
	GetUsersCollection() string
	GetDatabaseURL() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetDocumentStore selects the users backend: firestore, postgres or memory.
func (Store) GetDocumentStore() string {
	return strings.ToLower(GetEnv("DOCUMENT_STORE", StoreFirestore))
}

// GetProjectID is the Google Cloud project holding the Firestore database.
func (Store) GetProjectID() string {
	return GetEnv("PROJECT_ID", "")
}

func (Store) GetUsersCollection() string {
	return GetEnv("USERS_COLLECTION", "users")
}

func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}
