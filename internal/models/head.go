package models

// Head is the heads table row.
type Head struct {
	HeadID      string `db:"head_id"`
	Name        string `db:"name"`
	Code        string `db:"code"`
	Status      string `db:"status"`
	Category    string `db:"category"`
	Description string `db:"description"`
	AuditFields
}
