package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bancowarmi/warmi-api/internal/auth"
	"github.com/bancowarmi/warmi-api/internal/config"
	"github.com/bancowarmi/warmi-api/internal/models"
	"github.com/bancowarmi/warmi-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// ErrMembershipNotFound is returned by Dashboard when the member has no
// membership in the active cycle.
var ErrMembershipNotFound = errors.New("member has no membership in the active cycle")

// movementLimit caps the dashboard's recent-movement list.
const movementLimit = 5

// contributionLabel tags contribution movements; fines carry their type
// description instead.
const contributionLabel = "Aporte"

// Store is the persistence surface the service reads from.
type Store interface {
	FindMembership(ctx context.Context, memberID, cycleID int64) (*models.Membership, error)
	FindMember(ctx context.Context, memberID int64) (*models.Member, error)
	SumContributions(ctx context.Context, membershipID int64) (float64, error)
	SumFines(ctx context.Context, membershipID int64) (float64, error)
	LastContributionAmount(ctx context.Context, membershipID int64) (float64, error)
	ListContributions(ctx context.Context, membershipID int64) ([]models.Contribution, error)
	ListFines(ctx context.Context, membershipID int64) ([]models.Fine, error)
	FindCredential(ctx context.Context, username string) (*models.Credential, error)
}

// Service handles business logic
type Service struct {
	store    Store
	verifier auth.Verifier
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service
func NewService(store Store, verifier auth.Verifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, verifier: verifier, log: log, config: cfg}
}

// Dashboard aggregates the member summary for the active cycle. It is a pure
// read: any query failure fails the whole operation, no partial result is
// ever returned.
func (s *Service) Dashboard(ctx context.Context, memberID int64) (*models.Dashboard, error) {
	membership, err := s.store.FindMembership(ctx, memberID, s.config.ActiveCycleID)
	if err == repository.ErrNotFound {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	member, err := s.store.FindMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	totalContributions, err := s.store.SumContributions(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	totalFines, err := s.store.SumFines(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	lastContribution, err := s.store.LastContributionAmount(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	contributions, err := s.store.ListContributions(ctx, membership.ID)
	if err != nil {
		return nil, err
	}
	fines, err := s.store.ListFines(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Name:               member.FirstName + " " + member.LastName,
		TotalContributions: totalContributions,
		LastContribution:   lastContribution,
		TotalFines:         totalFines,
		Shares:             membership.Shares,
		Movements:          mergeMovements(contributions, fines),
	}, nil
}

// Fines returns the full fine history for the member in the active cycle. A
// missing membership is not an error here: it reads as "no fines".
func (s *Service) Fines(ctx context.Context, memberID int64) (*models.FineList, error) {
	membership, err := s.store.FindMembership(ctx, memberID, s.config.ActiveCycleID)
	if err == repository.ErrNotFound {
		return &models.FineList{TotalFines: 0, FinesList: []models.FineEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}

	fines, err := s.store.ListFines(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	// The total is summed here rather than in SQL so its numeric type always
	// matches the per-entry amounts.
	list := &models.FineList{FinesList: make([]models.FineEntry, 0, len(fines))}
	for _, f := range fines {
		list.TotalFines += f.Amount
		list.FinesList = append(list.FinesList, models.FineEntry{
			ID:     f.ID,
			Reason: f.TypeDesc,
			Date:   formatDateLong(f.Date),
			Amount: f.Amount,
		})
	}
	return list, nil
}

// Login checks a username/password pair against the stored credential.
// Unknown user and wrong password produce the same result so the response
// cannot reveal which one failed.
func (s *Service) Login(ctx context.Context, username, password string) (int64, bool, error) {
	cred, err := s.store.FindCredential(ctx, username)
	if err == repository.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	if !s.verifier.Verify(password, cred.PasswordHash) {
		s.log.Infof("Failed login attempt for %s", username)
		return 0, false, nil
	}

	s.log.Infof("Member logged in: %d", cred.MemberID)
	return cred.MemberID, true, nil
}

// mergeMovements combines contributions and fines, both already sorted by
// date descending, into one list sorted the same way and capped at
// movementLimit. Fine amounts are negated for display.
func mergeMovements(contributions []models.Contribution, fines []models.Fine) []models.Movement {
	movements := make([]models.Movement, 0, movementLimit)
	i, j := 0, 0
	for len(movements) < movementLimit && (i < len(contributions) || j < len(fines)) {
		takeFine := i >= len(contributions) ||
			(j < len(fines) && fines[j].Date.After(contributions[i].RecordedAt))
		if takeFine {
			f := fines[j]
			movements = append(movements, newMovement(f.TypeDesc, -f.Amount, f.Date))
			j++
		} else {
			c := contributions[i]
			movements = append(movements, newMovement(contributionLabel, c.Amount, c.RecordedAt))
			i++
		}
	}
	return movements
}

func newMovement(tipo string, amount float64, date time.Time) models.Movement {
	return models.Movement{
		ID:     fmt.Sprintf("%s-%s", tipo, date.Format(time.RFC3339)),
		Type:   tipo,
		Amount: amount,
		Date:   formatDateShort(date),
	}
}
