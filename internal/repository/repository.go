package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bancowarmi/warmi-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no row. Callers decide
// whether that is an error condition or a normal outcome.
var ErrNotFound = errors.New("not found")

// Repository provides database operations. The schema it queries belongs to
// the systems that write it; this service only reads.
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindMembership resolves the membership row for a member within a cycle.
func (r *Repository) FindMembership(ctx context.Context, memberID, cycleID int64) (*models.Membership, error) {
	m := &models.Membership{MemberID: memberID, CycleID: cycleID}
	query := `
		SELECT membresia_id, cantidad_acciones
		FROM membresias_ciclo
		WHERE socio_id = $1 AND ciclo_id = $2`
	err := r.db.QueryRowContext(ctx, query, memberID, cycleID).
		Scan(&m.ID, &m.Shares)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return m, nil
}

// FindMember retrieves a member's name fields by id.
func (r *Repository) FindMember(ctx context.Context, memberID int64) (*models.Member, error) {
	member := &models.Member{ID: memberID}
	query := `
		SELECT nombres, apellidos
		FROM socios
		WHERE socio_id = $1`
	err := r.db.QueryRowContext(ctx, query, memberID).
		Scan(&member.FirstName, &member.LastName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}

// SumContributions totals every contribution of a membership. No rows sums
// to zero, never NULL.
func (r *Repository) SumContributions(ctx context.Context, membershipID int64) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(monto_aportado), 0)
		FROM aportes
		WHERE membresia_id = $1`
	if err := r.db.QueryRowContext(ctx, query, membershipID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return total, nil
}

// SumFines totals every fine of a membership with the same zero-default rule.
func (r *Repository) SumFines(ctx context.Context, membershipID int64) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(monto_multa), 0)
		FROM multas
		WHERE membresia_id = $1`
	if err := r.db.QueryRowContext(ctx, query, membershipID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum fines: %w", err)
	}
	return total, nil
}

// LastContributionAmount returns the amount of the most recent contribution,
// or zero when the membership has none.
func (r *Repository) LastContributionAmount(ctx context.Context, membershipID int64) (float64, error) {
	var amount float64
	query := `
		SELECT monto_aportado
		FROM aportes
		WHERE membresia_id = $1
		ORDER BY fecha_hora_aporte DESC
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, membershipID).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find last contribution: %w", err)
	}
	return amount, nil
}

// ListContributions returns every contribution of a membership, newest first.
func (r *Repository) ListContributions(ctx context.Context, membershipID int64) ([]models.Contribution, error) {
	query := `
		SELECT aporte_id, monto_aportado, fecha_hora_aporte
		FROM aportes
		WHERE membresia_id = $1
		ORDER BY fecha_hora_aporte DESC`
	rows, err := r.db.QueryContext(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c := models.Contribution{MembershipID: membershipID}
		if err := rows.Scan(&c.ID, &c.Amount, &c.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	return contributions, nil
}

// ListFines returns every fine of a membership joined with its type
// description, newest first.
func (r *Repository) ListFines(ctx context.Context, membershipID int64) ([]models.Fine, error) {
	query := `
		SELECT m.multa_id, t.descripcion, m.monto_multa, m.fecha_multa
		FROM multas m
		JOIN tipos_multa t ON m.tipo_multa_id = t.tipo_multa_id
		WHERE m.membresia_id = $1
		ORDER BY m.fecha_multa DESC`
	rows, err := r.db.QueryContext(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	defer rows.Close()

	var fines []models.Fine
	for rows.Next() {
		f := models.Fine{MembershipID: membershipID}
		if err := rows.Scan(&f.ID, &f.TypeDesc, &f.Amount, &f.Date); err != nil {
			return nil, fmt.Errorf("failed to scan fine: %w", err)
		}
		fines = append(fines, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}
	return fines, nil
}

// FindCredential retrieves the stored credential for a username.
func (r *Repository) FindCredential(ctx context.Context, username string) (*models.Credential, error) {
	cred := &models.Credential{Username: username}
	query := `
		SELECT socio_id, password_hash
		FROM usuarios
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&cred.MemberID, &cred.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return cred, nil
}
