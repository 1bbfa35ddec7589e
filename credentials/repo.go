package credentials

// Repo defines the interface for credential storage operations. A single
// credential is stored at a time; saving overwrites any previous one.
type Repo interface {
	// Save persists the credential, replacing any existing one
	Save(cred Credential) error

	// Load retrieves the stored credential
	Load() (Credential, error)

	// Delete removes the stored credential (used on logout)
	Delete() error
}
