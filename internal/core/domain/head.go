package domain

// HeadStatus marks whether a head can be selected on new vouchers.
type HeadStatus string

const (
	HeadActive   HeadStatus = "active"
	HeadInactive HeadStatus = "inactive"
)

// Head is a payment head (expense/income category) administered by admins.
type Head struct {
	HeadID      string     `json:"headID"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Status      HeadStatus `json:"status"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	AuditFields
}
