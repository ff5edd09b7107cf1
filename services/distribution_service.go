package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-billing-backend/models"
)

// Batch directions. A batch carries exactly one direction; the corporate
// balance moves once per batch, with the sign the direction dictates.
const (
	DirectionPaymentReceived  = "payment_received"
	DirectionCorporateBilling = "corporate_billing"
)

// Allocation is one explicit per-folio amount in a batch. Amounts are
// supplied by the caller, never derived from a shared pool.
type Allocation struct {
	FolioID uint            `json:"folioId" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentResult reports one folio's outcome within a batch.
type PaymentResult struct {
	FolioID   uint            `json:"folioId"`
	PaymentID uint            `json:"paymentId"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// DistributionResult is the outcome of a whole batch.
type DistributionResult struct {
	PerFolio     []PaymentResult `json:"perFolio"`
	TotalApplied decimal.Decimal `json:"totalApplied"`
}

// DistributionService applies one payment (or one corporate billing run)
// across several folios as a single logical transaction. A failure on any
// folio rolls back the entire batch; the corporate account balance is
// applied exactly once, after every folio update has succeeded.
type DistributionService struct {
	DB *gorm.DB
}

func NewDistributionService(db *gorm.DB) *DistributionService {
	return &DistributionService{DB: db}
}

// DistributionOptions mirrors PaymentOptions for batches.
type DistributionOptions struct {
	Reference          string
	Notes              string
	PostedBy           string
	CorporateAccountID *uint
	AllowOverLimit     bool
}

// Distribute posts every allocation in one database transaction.
//
// DirectionPaymentReceived records money coming in: every folio's paid
// amount rises and the attributed corporate balance DECREASES by the batch
// total. DirectionCorporateBilling moves each folio's amount onto the
// corporate account as debt: the balance INCREASES by the total, guarded
// by the server-side credit check against the whole batch.
func (s *DistributionService) Distribute(propertyID uint, allocations []Allocation, direction, method string, opts DistributionOptions) (DistributionResult, error) {
	if len(allocations) == 0 {
		return DistributionResult{}, ErrEmptyBatch
	}
	seen := make(map[uint]bool, len(allocations))
	total := decimal.Zero
	for _, a := range allocations {
		if !a.Amount.IsPositive() {
			return DistributionResult{}, ErrInvalidAmount
		}
		if seen[a.FolioID] {
			return DistributionResult{}, ErrDuplicateFolioInBatch
		}
		seen[a.FolioID] = true
		total = total.Add(a.Amount)
	}
	if direction == DirectionCorporateBilling && opts.CorporateAccountID == nil {
		return DistributionResult{}, ErrAccountNotFound
	}

	var result DistributionResult
	err := withRetry(func() error {
		result = DistributionResult{}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			if direction == DirectionCorporateBilling {
				account, err := loadCorporateAccount(tx, propertyID, *opts.CorporateAccountID)
				if err != nil {
					return err
				}
				if !opts.AllowOverLimit && WouldExceedCreditLimit(account, total) {
					return ErrCreditLimitExceeded
				}
			}

			for _, a := range allocations {
				res, err := s.applyAllocation(tx, propertyID, a, direction, method, opts)
				if err != nil {
					return err
				}
				result.PerFolio = append(result.PerFolio, res)
			}

			// Exactly one corporate balance move per batch, after all
			// folio updates committed to this transaction.
			if opts.CorporateAccountID != nil {
				delta := total.Neg()
				if direction == DirectionCorporateBilling {
					delta = total
				}
				if err := adjustCorporateBalance(tx, propertyID, *opts.CorporateAccountID, delta); err != nil {
					return err
				}
			}

			result.TotalApplied = total
			return nil
		})
	})
	if err != nil {
		return DistributionResult{}, err
	}
	return result, nil
}

// DistributeFullBalances is the bulk "pay in full" path: each listed folio
// is settled exactly per its own current balance, resolved inside the same
// transaction so a concurrent posting cannot skew the amounts.
func (s *DistributionService) DistributeFullBalances(propertyID uint, folioIDs []uint, direction, method string, opts DistributionOptions) (DistributionResult, error) {
	if len(folioIDs) == 0 {
		return DistributionResult{}, ErrEmptyBatch
	}

	var result DistributionResult
	err := withRetry(func() error {
		result = DistributionResult{}
		return s.DB.Transaction(func(tx *gorm.DB) error {
			allocations := make([]Allocation, 0, len(folioIDs))
			total := decimal.Zero
			for _, id := range folioIDs {
				folio, err := loadFolio(tx, propertyID, id)
				if err != nil {
					return err
				}
				if !folio.Balance.IsPositive() {
					continue // nothing outstanding
				}
				allocations = append(allocations, Allocation{FolioID: id, Amount: folio.Balance})
				total = total.Add(folio.Balance)
			}
			if len(allocations) == 0 {
				return ErrEmptyBatch
			}

			if direction == DirectionCorporateBilling {
				if opts.CorporateAccountID == nil {
					return ErrAccountNotFound
				}
				account, err := loadCorporateAccount(tx, propertyID, *opts.CorporateAccountID)
				if err != nil {
					return err
				}
				if !opts.AllowOverLimit && WouldExceedCreditLimit(account, total) {
					return ErrCreditLimitExceeded
				}
			}

			for _, a := range allocations {
				res, err := s.applyAllocation(tx, propertyID, a, direction, method, opts)
				if err != nil {
					return err
				}
				result.PerFolio = append(result.PerFolio, res)
			}

			if opts.CorporateAccountID != nil {
				delta := total.Neg()
				if direction == DirectionCorporateBilling {
					delta = total
				}
				if err := adjustCorporateBalance(tx, propertyID, *opts.CorporateAccountID, delta); err != nil {
					return err
				}
			}

			result.TotalApplied = total
			return nil
		})
	})
	if err != nil {
		return DistributionResult{}, err
	}
	return result, nil
}

func (s *DistributionService) applyAllocation(tx *gorm.DB, propertyID uint, a Allocation, direction, method string, opts DistributionOptions) (PaymentResult, error) {
	folio, err := loadFolio(tx, propertyID, a.FolioID)
	if err != nil {
		return PaymentResult{}, err
	}
	prevVersion := folio.Version

	kind := models.PaymentKindPayment
	if direction == DirectionCorporateBilling {
		kind = models.PaymentKindCorporateBilling
	}
	payment := newPayment(folio.ID, a.Amount, method, kind, PaymentOptions{
		Reference:          opts.Reference,
		Notes:              opts.Notes,
		PostedBy:           opts.PostedBy,
		CorporateAccountID: opts.CorporateAccountID,
	})
	if err := tx.Create(&payment).Error; err != nil {
		return PaymentResult{}, err
	}

	if err := recalculateFolio(tx, &folio); err != nil {
		return PaymentResult{}, err
	}
	if err := writeFolioAggregates(tx, &folio, prevVersion); err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{
		FolioID:   folio.ID,
		PaymentID: payment.ID,
		Amount:    a.Amount,
		Balance:   folio.Balance,
	}, nil
}
