package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"local-branch/internal/entities"
	apperrors "local-branch/pkg/errors"
)

const (
	localBranchTable = "local_branches"

	pgUniqueViolation = "23505"
)

var localBranchColumns = []string{
	"lb.id", "lb.user_id", "lb.branch_name", "lb.branch_code", "lb.email",
	"lb.password_hash", "lb.phone", "lb.created_at", "lb.updated_at",
}

type LocalBranchRepositoryInterface interface {
	ExistsByCodeOrEmail(ctx context.Context, tx pgx.Tx, branchCode, email string) (bool, error)
	CreateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error
	FindByUserID(ctx context.Context, tx pgx.Tx, userID string) (*entities.LocalBranch, error)
	GetLocalBranches(ctx context.Context) ([]entities.LocalBranch, error)
	UpdateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error
}

type LocalBranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewLocalBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) LocalBranchRepositoryInterface {
	return &LocalBranchRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// getQuerier - возвращает транзакцию или пул соединений
func (r *LocalBranchRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanLocalBranch(row pgx.Row) (*entities.LocalBranch, error) {
	var b entities.LocalBranch
	err := row.Scan(
		&b.ID, &b.UserID, &b.BranchName, &b.BranchCode, &b.Email,
		&b.PasswordHash, &b.Phone, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan local branch: %w", err)
	}
	return &b, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func (r *LocalBranchRepository) ExistsByCodeOrEmail(ctx context.Context, tx pgx.Tx, branchCode, email string) (bool, error) {
	inner := r.psql.Select("1").
		From(localBranchTable + " AS lb").
		Where(sq.Or{
			sq.Eq{"lb.branch_code": branchCode},
			sq.Eq{"lb.email": email},
		})
	query, args, err := inner.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check local branch existence: %w", err)
	}
	return exists, nil
}

func (r *LocalBranchRepository) CreateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error {
	query, args, err := r.psql.Insert(localBranchTable).
		Columns("id", "user_id", "branch_name", "branch_code", "email", "password_hash", "phone", "created_at", "updated_at").
		Values(branch.ID, branch.UserID, branch.BranchName, branch.BranchCode, branch.Email, branch.PasswordHash, branch.Phone,
			sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&branch.CreatedAt, &branch.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// FindByUserID внутри транзакции блокирует строку до конца транзакции.
func (r *LocalBranchRepository) FindByUserID(ctx context.Context, tx pgx.Tx, userID string) (*entities.LocalBranch, error) {
	builder := r.psql.Select(localBranchColumns...).
		From(localBranchTable + " AS lb").
		Where(sq.Eq{"lb.user_id": userID})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	return scanLocalBranch(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *LocalBranchRepository) GetLocalBranches(ctx context.Context) ([]entities.LocalBranch, error) {
	query, args, err := r.psql.Select(localBranchColumns...).
		From(localBranchTable + " AS lb").
		OrderBy("lb.created_at ASC", "lb.user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}
	defer rows.Close()

	branches := make([]entities.LocalBranch, 0)
	for rows.Next() {
		branch, err := scanLocalBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate local branches: %w", err)
	}

	return branches, nil
}

// UpdateLocalBranch перезаписывает изменяемые поля. user_id и branch_name не трогаются.
func (r *LocalBranchRepository) UpdateLocalBranch(ctx context.Context, tx pgx.Tx, branch *entities.LocalBranch) error {
	query, args, err := r.psql.Update(localBranchTable).
		Set("branch_code", branch.BranchCode).
		Set("email", branch.Email).
		Set("password_hash", branch.PasswordHash).
		Set("phone", branch.Phone).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": branch.UserID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	err = r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&branch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}
