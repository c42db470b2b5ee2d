package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

// Repository persists expense records. Every operation takes the owner
// identity explicitly; there is no unscoped access path.
type Repository interface {
	Create(ctx context.Context, exp Expense) error
	Get(ctx context.Context, ownerID, id string) (Expense, error)
	List(ctx context.Context, ownerID string, filter Filter) ([]Expense, error)
	Update(ctx context.Context, ownerID, id string, changes Changes) (Expense, error)
	Delete(ctx context.Context, ownerID, id string) error
	MonthlyTotals(ctx context.Context, ownerID string, filter Filter) ([]MonthlyTotal, error)
}

// PostgresRepository stores expenses in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const expenseColumns = `id, owner_id, amount_cents, category, date, description, created_at`

// Create inserts an expense record.
func (r *PostgresRepository) Create(ctx context.Context, exp Expense) error {
	expenseID, err := uuid.Parse(exp.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(exp.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO expenses (id, owner_id, amount_cents, category, date, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		expenseID, ownerID, exp.AmountCents, exp.Category, exp.Date, exp.Description, exp.CreatedAt.UTC())
	return err
}

// Get fetches one record scoped to its owner. A record owned by someone else
// is indistinguishable from a missing one.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (Expense, error) {
	expenseID, ownerUUID, err := parseIDs(ownerID, id)
	if err != nil {
		return Expense{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND owner_id = $2`,
		expenseID, ownerUUID)
	return scanExpense(row)
}

// List returns the owner's records matching the filter, ordered by date
// descending with id as a stable tiebreak.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter Filter) ([]Expense, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.NotFoundf("expense")
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE owner_id = $1`
	args := []any{ownerUUID}
	query, args = appendFilter(query, args, filter)
	query += ` ORDER BY date DESC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// Update applies a partial update in a single statement so concurrent
// updates to the same record serialize at the row level.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, changes Changes) (Expense, error) {
	expenseID, ownerUUID, err := parseIDs(ownerID, id)
	if err != nil {
		return Expense{}, err
	}
	row := r.db.QueryRow(ctx, `UPDATE expenses SET
            amount_cents = COALESCE($3, amount_cents),
            category = COALESCE($4, category),
            date = COALESCE($5, date),
            description = COALESCE($6, description)
        WHERE id = $1 AND owner_id = $2
        RETURNING `+expenseColumns,
		expenseID, ownerUUID, changes.AmountCents, changes.Category, changes.Date, changes.Description)
	return scanExpense(row)
}

// Delete removes a record. Missing and foreign records fail identically.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	expenseID, ownerUUID, err := parseIDs(ownerID, id)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND owner_id = $2`, expenseID, ownerUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFoundf("expense")
	}
	return nil
}

// MonthlyTotals sums matching records per calendar (year, month), most
// recent period first. Months with no matching records are omitted.
func (r *PostgresRepository) MonthlyTotals(ctx context.Context, ownerID string, filter Filter) ([]MonthlyTotal, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.NotFoundf("expense")
	}

	query := `SELECT EXTRACT(YEAR FROM date)::INT AS year, EXTRACT(MONTH FROM date)::INT AS month,
            SUM(amount_cents)::BIGINT AS total
        FROM expenses WHERE owner_id = $1`
	args := []any{ownerUUID}
	query, args = appendFilter(query, args, filter)
	query += ` GROUP BY year, month ORDER BY year DESC, month DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var t MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.TotalCents); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func appendFilter(query string, args []any, filter Filter) (string, []any) {
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return query, args
}

func parseIDs(ownerID, id string) (uuid.UUID, uuid.UUID, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFoundf("expense")
	}
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFoundf("expense")
	}
	return expenseID, ownerUUID, nil
}

func scanExpense(row pgx.Row) (Expense, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		date      time.Time
		createdAt time.Time
		exp       Expense
	)
	if err := row.Scan(&id, &ownerID, &exp.AmountCents, &exp.Category, &date, &exp.Description, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, apperr.NotFoundf("expense")
		}
		return Expense{}, err
	}
	exp.ID = id.String()
	exp.OwnerID = ownerID.String()
	exp.Date = NormalizeDate(date)
	exp.CreatedAt = createdAt.UTC()
	return exp, nil
}
