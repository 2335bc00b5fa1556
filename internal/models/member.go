package models

// Member represents a socio of the savings circle
type Member struct {
	ID        int64  `json:"socio_id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
}

// Membership links a member to a savings cycle
type Membership struct {
	ID       int64 `json:"membresia_id"`
	MemberID int64 `json:"socio_id"`
	CycleID  int64 `json:"ciclo_id"`
	Shares   int64 `json:"cantidad_acciones"`
}

// Credential is a stored login record. The digest is never serialized.
type Credential struct {
	Username     string `json:"username"`
	MemberID     int64  `json:"socio_id"`
	PasswordHash string `json:"-"`
}
