package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"
)

// sqliteIdentityRepository implements repository.IdentityRepository.
type sqliteIdentityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates an identity repository backed by SQLite.
func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &sqliteIdentityRepository{db: db}
}

const identityColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	var i domain.Identity
	err := row.Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.Role, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *sqliteIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (int64, error) {
	if identity.Role == "" {
		identity.Role = domain.RoleUser
	}
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO identities(username, email, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?)`,
		identity.Username, identity.Email, identity.PasswordHash, identity.Role, identity.CreatedAt, identity.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	identity.ID = id
	return id, nil
}

func (r *sqliteIdentityRepository) GetByID(ctx context.Context, id int64) (*domain.Identity, error) {
	return scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = ?`, id))
}

func (r *sqliteIdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = ?`, email))
}

func (r *sqliteIdentityRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE username = ?`, username))
}
