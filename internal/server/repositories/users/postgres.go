package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avpetrov/authcore/internal/common"
	"github.com/avpetrov/authcore/internal/dbx"
	"github.com/avpetrov/authcore/internal/repository"
	"github.com/avpetrov/authcore/internal/server/models"
)

const selectColumns = "id, email, password_hash, is_verified, created_at"

// stableOrder keeps result ordering deterministic across queries, mirroring
// the in-memory store's insertion order.
const stableOrder = " ORDER BY created_at, id"

var filterColumns = map[string]bool{
	FieldID:           true,
	FieldEmail:        true,
	FieldPasswordHash: true,
	FieldIsVerified:   true,
	FieldCreatedAt:    true,
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindOne(ctx context.Context, criteria repository.Criteria) (*models.User, error) {
	where, args, err := buildWhere(criteria)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + selectColumns + " FROM users" + where + stableOrder + " LIMIT 1"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + selectColumns + " FROM users WHERE id = $1"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// FindAll runs the count and the page query inside one transaction so total
// and data describe the same snapshot.
func (r *PostgresRepository) FindAll(ctx context.Context, criteria repository.Criteria, page *repository.Pagination) (repository.Page[*models.User], error) {
	where, args, err := buildWhere(criteria)
	if err != nil {
		return repository.Page[*models.User]{}, err
	}

	var result repository.Page[*models.User]
	err = dbx.WithTx(ctx, r.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		countQuery := "SELECT COUNT(*) FROM users" + where
		if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&result.Total); err != nil {
			return fmt.Errorf("count error: %w", err)
		}

		query := "SELECT " + selectColumns + " FROM users" + where + stableOrder
		pageArgs := args
		if page != nil {
			pageArgs = append(append([]any{}, args...), page.Limit, page.Offset)
			query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		}

		rows, err := tx.QueryContext(ctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("scan error: %w", err)
			}
			result.Data = append(result.Data, user)
		}
		return rows.Err()
	})
	if err != nil {
		return repository.Page[*models.User]{}, err
	}
	return result, nil
}

// Save upserts by id. A duplicate email trips the unique constraint, which is
// what closes the signup check-then-insert race at the storage layer.
func (r *PostgresRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, email, password_hash, is_verified, created_at)
	 VALUES ($1, $2, $3, $4, $5)
	 ON CONFLICT (id) DO UPDATE
	 SET email = EXCLUDED.email,
	     password_hash = EXCLUDED.password_hash,
	     is_verified = EXCLUDED.is_verified
	 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID(), user.Email(), user.PasswordHash(), user.IsVerified(), user.CreatedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GenerateID() string {
	return uuid.NewString()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		id, email, hash string
		verified        bool
		createdAt       time.Time
	)
	if err := row.Scan(&id, &email, &hash, &verified, &createdAt); err != nil {
		return nil, err
	}
	return models.NewUser(id, email, hash, verified, createdAt)
}

// buildWhere maps abstract criteria onto SQL. Exact conditions become
// equality, ranges become inclusive >= / <= pairs. Clause order follows
// sorted field names so generated SQL is deterministic.
func buildWhere(criteria repository.Criteria) (string, []any, error) {
	if len(criteria) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(criteria))
	for key := range criteria {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var clauses []string
	var args []any
	for _, key := range keys {
		if !filterColumns[key] {
			return "", nil, fmt.Errorf("unknown filter field %q", key)
		}
		cond := criteria[key]

		if v, ok := cond.ExactValue(); ok {
			args = append(args, v)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", key, len(args)))
			continue
		}

		from, to, ok := cond.RangeBounds()
		if !ok {
			return "", nil, fmt.Errorf("invalid condition for field %q", key)
		}
		if from != nil {
			args = append(args, from)
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", key, len(args)))
		}
		if to != nil {
			args = append(args, to)
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", key, len(args)))
		}
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}
