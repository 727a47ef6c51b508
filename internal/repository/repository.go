package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStale means the row changed between read and write.
	ErrStale = errors.New("record was modified concurrently")
)

// StockShortageError reports a product that cannot cover a reservation.
type StockShortageError struct {
	ProductID uuid.UUID
	Name      string
	Available int
	Requested int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.Name, e.Available, e.Requested)
}

func (e *StockShortageError) Unwrap() error { return models.ErrStockExhausted }

type Page struct {
	Limit  int
	Offset int
}

// Sort names a column that callers have already whitelisted.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) clause(fallback string) string {
	col := s.Column
	if col == "" {
		col = fallback
	}
	if s.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func paginate(q *gorm.DB, p Page) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// sortedAdjustments orders adjustments by product id so concurrent
// transactions lock rows in the same order.
func sortedAdjustments(adjs []models.StockAdjustment) []models.StockAdjustment {
	out := append([]models.StockAdjustment(nil), adjs...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}
