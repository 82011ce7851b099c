package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/clock"
	"github.com/lodgerhq/lodger/internal/license/domain"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	"github.com/lodgerhq/lodger/pkg/db"
)

const keyCollisionRetries = 3

type ActivateInput struct {
	TransactionID string
	BillingPeriod string
	OwnerID       *string
}

type Service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
	Log   *zap.Logger
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
		log:   p.Log.Named("license.service"),
	}
}

// Create inserts a new PENDING license for the given plan.
func (s *Service) Create(ctx context.Context, license *domain.License) error {
	now := s.clock.Now()
	if license.ID == 0 {
		license.ID = s.genID.Generate()
	}
	license.PaymentStatus = domain.PaymentStatusPending
	license.CreatedAt = now
	license.UpdatedAt = now
	return s.repo.Insert(ctx, s.db, license)
}

// Activate applies the PENDING→PAID transition. The write is a single
// conditional update; when a concurrent activation wins the race the loser
// re-reads and returns the winner's record unchanged. Calling this on a
// license known not to be PENDING is a caller bug and fails with
// ErrInvalidTransition.
func (s *Service) Activate(ctx context.Context, license *domain.License, input ActivateInput) (*domain.License, error) {
	if license == nil {
		return nil, domain.ErrNotFound
	}
	if license.PaymentStatus != domain.PaymentStatusPending {
		return nil, domain.ErrInvalidTransition
	}
	if !plandomain.ValidBillingPeriod(input.BillingPeriod) {
		return nil, domain.ErrInvalidBillingPeriod
	}

	now := s.clock.Now()
	activation := domain.Activation{
		TransactionID: strings.TrimSpace(input.TransactionID),
		BillingPeriod: input.BillingPeriod,
		ActivatedAt:   now,
		ExpiresAt:     domain.ExpiryFor(input.BillingPeriod, now),
		OwnerID:       input.OwnerID,
	}

	for attempt := 0; attempt < keyCollisionRetries; attempt++ {
		key, err := generateLicenceKey()
		if err != nil {
			return nil, err
		}
		activation.LicenceKey = key

		updated, err := s.repo.ActivatePending(ctx, s.db, license.ID, activation)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				s.log.Warn("licence key collision, regenerating", zap.Int64("license_id", int64(license.ID)))
				continue
			}
			return nil, err
		}
		if !updated {
			return s.resolveLostRace(ctx, license.ID)
		}
		return s.repo.FindByID(ctx, s.db, license.ID)
	}
	return nil, fmt.Errorf("license: could not generate a unique key after %d attempts", keyCollisionRetries)
}

// resolveLostRace handles the conditional-update miss: a concurrent writer
// already activated the license, so the winner's state is the result.
func (s *Service) resolveLostRace(ctx context.Context, id snowflake.ID) (*domain.License, error) {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if current.PaymentStatus == domain.PaymentStatusPaid {
		return current, nil
	}
	return nil, domain.ErrInvalidTransition
}

// Redeem binds the caller to an already-activated license by its key. A key
// that was never activated cannot be redeemed; a key already bound to a
// different owner is rejected.
func (s *Service) Redeem(ctx context.Context, key, ownerID string) (*domain.License, error) {
	key = strings.TrimSpace(key)
	ownerID = strings.TrimSpace(ownerID)

	license, err := s.repo.FindByLicenceKey(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, domain.ErrNotFound
	}
	if license.PaymentStatus != domain.PaymentStatusPaid {
		return nil, domain.ErrCannotProcess
	}
	if license.OwnerID != nil {
		if *license.OwnerID == ownerID {
			return license, nil
		}
		return nil, domain.ErrAlreadyRedeemed
	}

	bound, err := s.repo.BindOwner(ctx, s.db, license.ID, ownerID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !bound {
		// concurrent redemption; re-read and compare owners
		current, err := s.repo.FindByID(ctx, s.db, license.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		if current.OwnerID != nil && *current.OwnerID == ownerID {
			return current, nil
		}
		return nil, domain.ErrAlreadyRedeemed
	}
	return s.repo.FindByID(ctx, s.db, license.ID)
}

const keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateLicenceKey produces a key like LDGR-7Q2M-XK9P-4WNT-C3HF. The
// alphabet drops ambiguous characters so keys survive being read aloud.
func generateLicenceKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("license: generate key: %w", err)
	}

	var b strings.Builder
	b.WriteString("LDGR")
	for i, c := range raw {
		if i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(keyAlphabet[int(c)%len(keyAlphabet)])
	}
	return b.String(), nil
}
