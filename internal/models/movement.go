package models

import "time"

// Contribution is a deposit recorded against a membership. Append-only
// upstream; this service only reads them.
type Contribution struct {
	ID           int64     `json:"aporte_id"`
	MembershipID int64     `json:"membresia_id"`
	Amount       float64   `json:"monto_aportado"`
	RecordedAt   time.Time `json:"fecha_hora_aporte"`
}

// Fine is a penalty charge recorded against a membership, already joined
// with its type description.
type Fine struct {
	ID           int64     `json:"multa_id"`
	MembershipID int64     `json:"membresia_id"`
	TypeDesc     string    `json:"descripcion"`
	Amount       float64   `json:"monto_multa"`
	Date         time.Time `json:"fecha_multa"`
}
