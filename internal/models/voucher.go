package models

import "time"

// Voucher is a stored voucher row. Doc holds the document exactly as written;
// EntryDate and SlipNo are copies kept for indexing.
type Voucher struct {
	ID        string     `db:"id"`
	Book      string     `db:"book"`
	Doc       []byte     `db:"doc"`
	EntryDate *time.Time `db:"entry_date"`
	SlipNo    *int64     `db:"slip_no"`
	CreatedAt time.Time  `db:"created_at"`
}
