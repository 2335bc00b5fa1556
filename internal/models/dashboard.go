package models

// Movement is a unified display row: a contribution (positive amount) or a
// fine (negated amount). The id is synthesized from the type label and the
// full timestamp; nothing downstream should treat it as a database key.
type Movement struct {
	ID     string  `json:"id"`
	Type   string  `json:"tipo"`
	Amount float64 `json:"monto"`
	Date   string  `json:"fecha"`
}

// Dashboard is the aggregated member summary served at /dashboard/{socioId}.
// Field names follow the wire contract the frontend already consumes.
type Dashboard struct {
	Name               string     `json:"nombre"`
	TotalContributions float64    `json:"aportesAcumulados"`
	LastContribution   float64    `json:"ultimoAporte"`
	TotalFines         float64    `json:"multasAcumuladas"`
	Shares             int64      `json:"acciones"`
	Movements          []Movement `json:"movimientos"`
}

// FineEntry is one row of the fines listing; its id is the fine's own
// database id, unlike the synthetic movement ids.
type FineEntry struct {
	ID     int64   `json:"id"`
	Reason string  `json:"reason"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// FineList is the response of /fines/{socioId}
type FineList struct {
	TotalFines float64     `json:"totalFines"`
	FinesList  []FineEntry `json:"finesList"`
}
