package domain

// Profile is a user's free-text profile, keyed by the external identity
// the provider hands us. Created lazily on first dashboard view.
type Profile struct {
	UserID      string `db:"user_id" json:"userId"`
	Name        string `db:"name" json:"name"`
	Location    string `db:"location" json:"location"`
	Interest    string `db:"interest" json:"interest"`
	Level       string `db:"level" json:"level"`
	Description string `db:"description" json:"description"`
}
