package reconciliation

import (
	"fmt"
	"math"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

// checkAccount recomputes the expected balance from the account's full event
// history and evaluates every anomaly rule. Rules are independent: one
// account can raise several anomalies in a single scan.
func (e *Engine) checkAccount(account *domain.Account) ([]*Anomaly, error) {
	deposits, err := e.fundsRepo.SumDepositsByUser(account.UserID, domain.FundsCompleted)
	if err != nil {
		return nil, fmt.Errorf("summing deposits: %w", err)
	}
	withdrawals, err := e.fundsRepo.SumWithdrawalsByUser(account.UserID, domain.FundsCompleted)
	if err != nil {
		return nil, fmt.Errorf("summing withdrawals: %w", err)
	}

	buyerTxs, err := e.txRepo.FindUserTransactions(account.UserID, domain.RoleBuyer, []domain.TransactionStatus{
		domain.StatusDeposited, domain.StatusShipping, domain.StatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("listing buyer transactions: %w", err)
	}
	var spent float64
	for _, tx := range buyerTxs {
		spent += tx.Amount
	}

	sellerTxs, err := e.txRepo.FindUserTransactions(account.UserID, domain.RoleSeller, []domain.TransactionStatus{
		domain.StatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("listing seller transactions: %w", err)
	}
	var earned float64
	for _, tx := range sellerTxs {
		earned += tx.SellerReceives
	}

	expected := deposits - withdrawals - spent + earned
	difference := account.Balance - expected

	var anomalies []*Anomaly

	if math.Abs(difference) > e.cfg.DriftThreshold {
		anomalyType := AnomalyBalanceInflated
		if difference < 0 {
			anomalyType = AnomalyBalanceDeflated
		}
		severity := SeverityMedium
		if math.Abs(difference) > e.cfg.HighSeverityThreshold {
			severity = SeverityHigh
		}
		anomalies = append(anomalies, &Anomaly{
			UserID:     account.UserID,
			Type:       anomalyType,
			Severity:   severity,
			Expected:   expected,
			Actual:     account.Balance,
			Difference: difference,
			Description: fmt.Sprintf("stored balance %.2f diverges from recomputed %.2f by %.2f",
				account.Balance, expected, difference),
		})
	}

	if account.Balance > e.cfg.UnexplainedThreshold {
		depositCount, err := e.fundsRepo.CountDepositsByUser(account.UserID, domain.FundsCompleted)
		if err != nil {
			return nil, fmt.Errorf("counting deposits: %w", err)
		}
		if depositCount == 0 && len(sellerTxs) == 0 {
			anomalies = append(anomalies, &Anomaly{
				UserID:   account.UserID,
				Type:     AnomalyUnexplainedBalance,
				Severity: SeverityHigh,
				Expected: expected,
				Actual:   account.Balance,
				Description: fmt.Sprintf("balance %.2f with no completed deposits and no completed sales",
					account.Balance),
			})
		}
	}

	unknownTotal, err := e.auditRepo.SumUnknownSourceDeltas(account.UserID)
	if err != nil {
		return nil, fmt.Errorf("summing unknown-source deltas: %w", err)
	}
	if unknownTotal != 0 {
		anomalies = append(anomalies, &Anomaly{
			UserID:     account.UserID,
			Type:       AnomalySuspiciousChange,
			Severity:   SeverityHigh,
			Expected:   expected,
			Actual:     account.Balance,
			Difference: unknownTotal,
			Description: fmt.Sprintf("balance changes of unknown source totalling %.2f",
				unknownTotal),
		})
	}

	return anomalies, nil
}
