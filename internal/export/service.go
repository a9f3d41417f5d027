package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/ledger"
)

// Service writes ledger statements to disk for accounting handoff.
type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerSvc *ledger.Service) *Service {
	return &Service{ledger: ledgerSvc}
}

// WriteStatement streams every approved transaction of the investment as
// CSV to out.
func (s *Service) WriteStatement(ctx context.Context, investmentID uuid.UUID, out io.Writer) error {
	status := ledger.StatusApproved

	txs, err := s.ledger.List(ctx, ledger.ListFilter{InvestmentID: investmentID, Status: &status})
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	w := csv.NewWriter(out)

	header := []string{"date", "type", "category", "title", "amount", "reviewed_at"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		if err := w.Write(statementRow(tx)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing statement: %w", err)
	}

	return nil
}

// Statement exports the statement as a CSV file in outputDir and returns
// the file path.
func (s *Service) Statement(ctx context.Context, investmentID uuid.UUID, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := fmt.Sprintf("statement_%s_%s.csv",
		shortID(investmentID), time.Now().UTC().Format("20060102"))
	path := filepath.Join(outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := s.WriteStatement(ctx, investmentID, f); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func statementRow(tx *ledger.Transaction) []string {
	category := ""

	switch {
	case tx.CreditCategory != nil:
		category = string(*tx.CreditCategory)
	case tx.CashExpenseCategory != nil:
		category = string(*tx.CashExpenseCategory)
	}

	reviewedAt := ""
	if tx.ReviewedAt != nil {
		reviewedAt = tx.ReviewedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		tx.CreatedAt.UTC().Format("2006-01-02"),
		string(tx.Type),
		category,
		tx.Title,
		formatAmount(tx.AmountCents),
		reviewedAt,
	}
}

// formatAmount renders cents as a decimal string without going through
// floating point.
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func shortID(id uuid.UUID) string {
	return strings.SplitN(id.String(), "-", 2)[0]
}
