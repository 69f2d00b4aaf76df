package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator"
	"github.com/midasbot/midas/midas/economy/utils"
	"github.com/midasbot/midas/midas/metrics"
)

// CreditService issues and collects loans. Rates come from the class
// ladder, the borrower's credit score and the tenant's base rate.
type CreditService struct {
	store Store
	eng   *engine.Engine
	met   *metrics.Metrics

	now func() time.Time
}

func NewCreditService(store Store, eng *engine.Engine, met *metrics.Metrics) *CreditService {
	return &CreditService{store: store, eng: eng, met: met, now: time.Now}
}

// LoanResult is one disbursed loan.
type LoanResult struct {
	Loan        *models.Loan
	CreditScore float64
	Balance     int64
}

// RequestLoan disburses a loan against the borrower's class ceiling.
// Total debt including the new principal may not pass the ceiling
// scaled by the debt factor.
func (s *CreditService) RequestLoan(ctx context.Context, guildID, userID snowflake.ID, amount int64) (result *LoanResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("loan", start, err) }()

	if amount <= 0 {
		return nil, apperrors.NewValidation("loan amount must be positive")
	}

	gid, uid := guildID.String(), userID.String()
	now := s.now()

	eco, err := s.store.Economy(ctx, simulator.EconomyTemplate(s.eng.Catalog(), gid, now))
	if err != nil {
		return nil, fmt.Errorf("failed to load economy: %w", err)
	}

	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), gid, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	class := s.eng.Classify(player.Wealth())
	if amount > class.MaxLoan {
		return nil, apperrors.NewValidation(fmt.Sprintf("your class allows loans up to %d", class.MaxLoan))
	}

	debt, err := s.store.TotalDebt(ctx, gid, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debt: %w", err)
	}
	if debt+amount > class.MaxLoan*utils.LoanDebtCeilingFactor {
		return nil, apperrors.NewValidation(fmt.Sprintf("existing debt of %d puts this loan past your ceiling", debt))
	}

	credit := s.eng.CreditScore(debt, class.MaxLoan)
	rate := s.eng.LoanInterest(class, credit, eco.InterestRate)

	loan := &models.Loan{
		GuildID:      gid,
		UserID:       uid,
		Principal:    amount,
		Remaining:    int64(math.Round(float64(amount) * (1 + rate))),
		InterestRate: rate,
		DueDate:      now.Add(utils.LoanTermDays * 24 * time.Hour),
	}
	if err = s.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	player, err = s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		p.Balance += amount
		p.Stats.LoansTaken++
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordTxn(ctx, s.store, gid, models.SystemParty, uid, amount, models.TxnLoanDisbursement, "", now)

	return &LoanResult{Loan: loan, CreditScore: credit, Balance: player.Balance}, nil
}

// RepayResult is one repayment applied across open loans.
type RepayResult struct {
	Paid      int64
	Remaining int64
	Cleared   int
	Balance   int64
}

// Repay pays debt down oldest-due-first. Amounts past the total debt
// are clamped, never burned.
func (s *CreditService) Repay(ctx context.Context, guildID, userID snowflake.ID, amount int64) (result *RepayResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("repay", start, err) }()

	if amount <= 0 {
		return nil, apperrors.NewValidation("repayment amount must be positive")
	}
	return s.repay(ctx, guildID.String(), userID.String(), func(_, debt int64) int64 {
		return min(amount, debt)
	})
}

// RepayAll clears as much debt as the cash balance covers.
func (s *CreditService) RepayAll(ctx context.Context, guildID, userID snowflake.ID) (result *RepayResult, err error) {
	start := time.Now()
	defer func() { s.met.ObserveAction("repay", start, err) }()

	return s.repay(ctx, guildID.String(), userID.String(), func(balance, debt int64) int64 {
		return min(balance, debt)
	})
}

func (s *CreditService) repay(ctx context.Context, gid, uid string, pick func(balance, debt int64) int64) (*RepayResult, error) {
	now := s.now()

	loans, err := s.store.OpenLoans(ctx, gid, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	if len(loans) == 0 {
		return nil, apperrors.NewValidation("you have no open loans")
	}
	var debt int64
	for _, l := range loans {
		debt += l.Remaining
	}

	var paid int64
	player, err := s.store.UpdatePlayer(ctx, gid, uid, func(p *models.Player) error {
		amount := pick(p.Balance, debt)
		if amount <= 0 {
			return apperrors.NewValidation("you have no cash to repay with")
		}
		if amount > p.Balance {
			return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", p.Balance, amount))
		}
		p.Balance -= amount
		paid = amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &RepayResult{Paid: paid, Remaining: debt - paid, Balance: player.Balance}
	left := paid
	for _, loan := range loans {
		if left == 0 {
			break
		}
		applied := min(left, loan.Remaining)
		loan.Remaining -= applied
		left -= applied
		if loan.Remaining == 0 {
			result.Cleared++
		}
		if err := s.store.SaveLoan(ctx, loan); err != nil {
			return nil, fmt.Errorf("failed to update loan %d: %w", loan.ID, err)
		}
	}

	recordTxn(ctx, s.store, gid, uid, models.SystemParty, paid, models.TxnLoanRepayment, "", now)
	return result, nil
}

// LoanBook is the borrower's open position.
type LoanBook struct {
	Loans       []*models.Loan
	TotalDebt   int64
	CreditScore float64
}

// Loans returns the borrower's open loans oldest due first, with the
// credit score their class and debt produce.
func (s *CreditService) Loans(ctx context.Context, guildID, userID snowflake.ID) (*LoanBook, error) {
	gid, uid := guildID.String(), userID.String()

	player, err := s.store.Player(ctx, playerTemplate(s.eng.Catalog(), gid, uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	loans, err := s.store.OpenLoans(ctx, gid, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}

	var debt int64
	for _, l := range loans {
		debt += l.Remaining
	}

	class := s.eng.Classify(player.Wealth())
	return &LoanBook{
		Loans:       loans,
		TotalDebt:   debt,
		CreditScore: s.eng.CreditScore(debt, class.MaxLoan),
	}, nil
}
