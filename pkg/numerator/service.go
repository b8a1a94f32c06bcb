// Package numerator provides auto-numbering for ledger operations.
// Numbers are allocated with UPSERT ... RETURNING through the caller's
// transaction, so committed sequences are gapless per key.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/id"
)

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context: the open
// transaction when one is in flight, the pool otherwise.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) Querier
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "OP")
	Prefix string

	// IncludeYear adds the period year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// Service generates sequential numbers scoped per account.
type Service struct {
	provider QuerierProvider
}

// New creates a numerator backed by the given querier provider.
func New(provider QuerierProvider) *Service {
	return &Service{provider: provider}
}

// NextNumber allocates the next number for the account and period.
// Pattern: PREFIX-YEAR-XXXXX (e.g. OP-2026-00001).
func (s *Service) NextNumber(ctx context.Context, accountID id.ID, cfg Config, period time.Time) (string, error) {
	key := buildKey(cfg, period)

	var num int64
	err := s.provider.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (account_id, key, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (account_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, accountID, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return formatNumber(cfg, period, num), nil
}

// buildKey creates the sequence key from config and period.
func buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the numeric part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	idx := strings.LastIndexByte(formatted, '-')
	if idx < 0 || idx == len(formatted)-1 {
		return -1
	}

	num, err := strconv.ParseInt(formatted[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
