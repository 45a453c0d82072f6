package subsidy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M4r3n0/FinTun/internal/clients/wallet"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrProgramNotFound = errors.New("subsidy program not found")
	ErrProgramInactive = errors.New("subsidy program is not active")
	ErrNotEligible     = errors.New("user does not meet program criteria")
	ErrAlreadyClaimed  = errors.New("subsidy already claimed")
)

// Service runs government subsidy programs. Payouts come out of the
// treasury wallet through the ledger, so the books stay balanced and a
// replayed claim can never pay twice.
type Service interface {
	CreateProgram(ctx context.Context, input CreateProgramInput) (*models.SubsidyProgram, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.SubsidyProgram, error)
	ListPrograms(ctx context.Context) ([]*models.SubsidyProgram, error)

	// Claim pays the program amount to the user's wallet after checking
	// eligibility. The claim id is the ledger reference id.
	Claim(ctx context.Context, programID, userID uuid.UUID) (*models.SubsidyClaim, error)
	ListClaims(ctx context.Context, userID uuid.UUID) ([]*models.SubsidyClaim, error)
}

// CreateProgramInput describes a new program. Criteria keys: "max_age"
// (number), "role" (string). Absent keys do not constrain.
type CreateProgramInput struct {
	Name     string
	Amount   decimal.Decimal
	Currency string
	Criteria models.JSON
}

type service struct {
	programs   repositories.SubsidyRepository
	users      repositories.UserRepository
	wallet     wallet.Client
	treasuryID uuid.UUID
	now        func() time.Time
}

// NewService creates the subsidy service. treasuryID is the ASSET account
// subsidies are disbursed from.
func NewService(programs repositories.SubsidyRepository, users repositories.UserRepository, walletClient wallet.Client, treasuryID uuid.UUID) Service {
	if programs == nil {
		panic("subsidy repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}
	if walletClient == nil {
		panic("wallet client is required")
	}
	return &service{
		programs:   programs,
		users:      users,
		wallet:     walletClient,
		treasuryID: treasuryID,
		now:        time.Now,
	}
}

func (s *service) CreateProgram(ctx context.Context, input CreateProgramInput) (*models.SubsidyProgram, error) {
	if input.Name == "" {
		return nil, errors.New("program name is required")
	}
	if !validation.ValidAmount(input.Amount) {
		return nil, errors.New("program amount must be positive")
	}
	if input.Currency == "" {
		input.Currency = "TND"
	}
	if !validation.ValidCurrency(input.Currency) {
		return nil, fmt.Errorf("unsupported currency %q", input.Currency)
	}

	program := &models.SubsidyProgram{
		Name:     input.Name,
		Amount:   input.Amount,
		Currency: input.Currency,
		Criteria: input.Criteria,
		Active:   true,
	}
	if err := s.programs.CreateProgram(program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *service) GetProgram(ctx context.Context, id uuid.UUID) (*models.SubsidyProgram, error) {
	program, err := s.programs.GetProgram(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *service) ListPrograms(ctx context.Context) ([]*models.SubsidyProgram, error) {
	return s.programs.ListActivePrograms()
}

func (s *service) Claim(ctx context.Context, programID, userID uuid.UUID) (*models.SubsidyClaim, error) {
	program, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !program.Active {
		return nil, ErrProgramInactive
	}

	claimant, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEligibility(program, claimant); err != nil {
		return nil, err
	}

	userWallet, err := s.wallet.GetAccountByOwner(ctx, userID, program.Currency)
	if err != nil {
		return nil, err
	}

	// The unique (program, user) index makes the claim row the
	// at-most-once guard; it exists before the money moves.
	claim := &models.SubsidyClaim{
		ID:        uuid.New(),
		ProgramID: program.ID,
		UserID:    userID,
		Amount:    program.Amount,
	}
	if err := s.programs.CreateClaim(claim); err != nil {
		if errors.Is(err, repositories.ErrClaimExists) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	_, err = s.wallet.ApplyTransaction(ctx, &wallet.ApplyRequest{
		ReferenceID: claim.ID.String(),
		Type:        models.TransactionTypeSubsidy,
		Description: fmt.Sprintf("Subsidy: %s", program.Name),
		Entries: []wallet.Entry{
			{AccountID: s.treasuryID, Amount: program.Amount},
			{AccountID: userWallet.ID, Amount: program.Amount.Neg()},
		},
	})
	if err != nil {
		if wallet.IsAmbiguous(err) {
			// Outcome unknown; the claim row keeps the reference id so a
			// later retry of the same claim reconciles it.
			log.Printf("ambiguous subsidy payout for claim %s: %v", claim.ID, err)
			return claim, nil
		}
		claim.Status = models.SubsidyClaimFailed
		if uerr := s.programs.UpdateClaim(claim); uerr != nil {
			log.Printf("failed to mark claim %s failed: %v", claim.ID, uerr)
		}
		return claim, err
	}

	claim.Status = models.SubsidyClaimPaid
	if err := s.programs.UpdateClaim(claim); err != nil {
		log.Printf("failed to mark claim %s paid: %v", claim.ID, err)
	}
	return claim, nil
}

func (s *service) ListClaims(ctx context.Context, userID uuid.UUID) ([]*models.SubsidyClaim, error) {
	return s.programs.ListClaimsByUser(userID)
}

func (s *service) checkEligibility(program *models.SubsidyProgram, claimant *models.User) error {
	if claimant.KYCLevel != models.KYCLevelVerified {
		return ErrNotEligible
	}
	if program.Criteria == nil {
		return nil
	}

	if raw, ok := program.Criteria["max_age"]; ok {
		maxAge, ok := raw.(float64)
		if !ok {
			return fmt.Errorf("malformed max_age criterion in program %s", program.ID)
		}
		if claimant.DateOfBirth == nil {
			return ErrNotEligible
		}
		if ageAt(s.now(), *claimant.DateOfBirth) > int(maxAge) {
			return ErrNotEligible
		}
	}

	if raw, ok := program.Criteria["role"]; ok {
		role, ok := raw.(string)
		if !ok {
			return fmt.Errorf("malformed role criterion in program %s", program.ID)
		}
		if claimant.Role != role {
			return ErrNotEligible
		}
	}

	return nil
}

func ageAt(now, birth time.Time) int {
	years := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		years--
	}
	return years
}
