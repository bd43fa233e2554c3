package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-posts/pkg/simpleposts"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements simpleposts.Repository using PostgreSQL.
//
// Insertion order is a bigserial sequence column; donation totals are stored
// as NUMERIC(39,0), wide enough for any 128-bit value, and accumulated under
// a row lock so concurrent donations serialize per post.
// Schema: migrations/postgres/0001_posts.up.sql.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleposts.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleposts.Repository {
	return &Repository{db: pool}
}

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("post already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return simpleposts.ErrPostNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreatePost(ctx context.Context, post *simpleposts.Post) error {
	query := `
		INSERT INTO posts (id, author, title, body, image, donation_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Author, post.Title, post.Body,
		nullableImage(post.Image), post.DonationTotal.String(), post.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create post", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id string) (*simpleposts.Post, error) {
	query := `
		SELECT id, author, title, body, COALESCE(image, ''), donation_total::text, created_at
		FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleposts.ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*simpleposts.Post, error) {
	query := `
		SELECT id, author, title, body, COALESCE(image, ''), donation_total::text, created_at
		FROM posts ORDER BY seq`

	return r.queryPosts(ctx, query)
}

func (r *Repository) SearchPosts(ctx context.Context, query string) ([]*simpleposts.Post, error) {
	// strpos is a case-sensitive exact substring match, like the memory
	// registry's strings.Contains. The empty query matches every row.
	sql := `
		SELECT id, author, title, body, COALESCE(image, ''), donation_total::text, created_at
		FROM posts WHERE strpos(title, $1) > 0 OR $1 = '' ORDER BY seq`

	return r.queryPosts(ctx, sql, query)
}

func (r *Repository) DeletePost(ctx context.Context, id string) error {
	// Unknown ids delete zero rows and are not an error.
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete post", err)
	}
	return nil
}

func (r *Repository) AddDonation(ctx context.Context, id string, amount simpleposts.Amount) (simpleposts.Amount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return simpleposts.Amount{}, r.handlePostgresError("add donation", err)
	}
	defer tx.Rollback(ctx)

	var currentStr string
	err = tx.QueryRow(ctx,
		`SELECT donation_total::text FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&currentStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return simpleposts.Amount{}, simpleposts.ErrPostNotFound
		}
		return simpleposts.Amount{}, r.handlePostgresError("add donation", err)
	}

	current, err := simpleposts.ParseAmount(currentStr)
	if err != nil {
		return simpleposts.Amount{}, fmt.Errorf("corrupt donation total for post %s: %w", id, err)
	}

	total, err := current.Add(amount)
	if err != nil {
		// Overflow: leave the row untouched.
		return simpleposts.Amount{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE posts SET donation_total = $2::numeric WHERE id = $1`, id, total.String())
	if err != nil {
		return simpleposts.Amount{}, r.handlePostgresError("add donation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return simpleposts.Amount{}, r.handlePostgresError("add donation", err)
	}

	return total, nil
}

func (r *Repository) GetDonations(ctx context.Context, id string) (simpleposts.Amount, error) {
	var totalStr string
	err := r.db.QueryRow(ctx,
		`SELECT donation_total::text FROM posts WHERE id = $1`, id).Scan(&totalStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return simpleposts.Amount{}, simpleposts.ErrPostNotFound
		}
		return simpleposts.Amount{}, r.handlePostgresError("get donations", err)
	}

	total, err := simpleposts.ParseAmount(totalStr)
	if err != nil {
		return simpleposts.Amount{}, fmt.Errorf("corrupt donation total for post %s: %w", id, err)
	}

	return total, nil
}

func (r *Repository) queryPosts(ctx context.Context, sql string, args ...interface{}) ([]*simpleposts.Post, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	posts := make([]*simpleposts.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}

	return posts, nil
}

func scanPost(row pgx.Row) (*simpleposts.Post, error) {
	var post simpleposts.Post
	var totalStr string
	if err := row.Scan(
		&post.ID, &post.Author, &post.Title, &post.Body,
		&post.Image, &totalStr, &post.CreatedAt); err != nil {
		return nil, err
	}

	total, err := simpleposts.ParseAmount(totalStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt donation total for post %s: %w", post.ID, err)
	}
	post.DonationTotal = total

	return &post, nil
}

func nullableImage(image string) interface{} {
	if image == "" {
		return nil
	}
	return image
}
