package services

import (
	"database/sql"

	intconfig "backend/internal/config"
)

// MonthlyFinance is one month of aggregated transactions, consumed by
// the dashboard chart widgets.
type MonthlyFinance struct {
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

type ReportsService struct {
	DB *sql.DB
}

func (s ReportsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// MonthlySummary aggregates the transactions ledger per month for one
// year. Months without transactions are returned zeroed so the chart
// always has 12 points.
func (s ReportsService) MonthlySummary(year int) ([]MonthlyFinance, error) {
	rows, err := s.db().Query(`
		SELECT MONTH(tx_date) AS m,
		       COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE YEAR(tx_date) = ?
		GROUP BY MONTH(tx_date)
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := map[int]MonthlyFinance{}
	for rows.Next() {
		var f MonthlyFinance
		if err := rows.Scan(&f.Month, &f.Income, &f.Expense); err != nil {
			return nil, err
		}
		f.Net = f.Income - f.Expense
		byMonth[f.Month] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MonthlyFinance, 0, 12)
	for m := 1; m <= 12; m++ {
		f, ok := byMonth[m]
		if !ok {
			f = MonthlyFinance{Month: m}
		}
		out = append(out, f)
	}
	return out, nil
}

// ReceivablesOutstanding sums unpaid receivables, grouped per client.
type ClientReceivable struct {
	ClientName  string `json:"clientName"`
	Outstanding int64  `json:"outstanding"`
	Count       int    `json:"count"`
}

func (s ReportsService) ReceivablesOutstanding() ([]ClientReceivable, error) {
	rows, err := s.db().Query(`
		SELECT COALESCE(client_name, ''), COALESCE(SUM(amount), 0), COUNT(*)
		FROM receivables
		WHERE paid = 0
		GROUP BY client_name
		ORDER BY SUM(amount) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ClientReceivable{}
	for rows.Next() {
		var c ClientReceivable
		if err := rows.Scan(&c.ClientName, &c.Outstanding, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
