package models

// AppUser is the app_users table row. Permissions is a JSON object of name to bool.
type AppUser struct {
	UserID      string `db:"user_id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
	Role        string `db:"role"`
	Active      bool   `db:"active"`
	Permissions []byte `db:"permissions"`
	AuditFields
}
