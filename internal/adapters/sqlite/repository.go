package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/fpr-form/internal/domain"
)

//go:embed schema.sql
var schema string

// Repository stores form snapshots, verification outcomes and verified
// customer details in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the SQLite database at dsn and applies the schema.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	r := NewWithDB(db)
	if err := r.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB wraps an open handle without touching the schema.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Migrate creates any missing tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repository) Close() error { return r.db.Close() }

// ── Form snapshots ────────────────────────────────────────────────────────────

func (r *Repository) LoadState(ctx context.Context, sessionID string) (*domain.FormState, error) {
	var snapshot string
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM form_states WHERE session_id=?`, sessionID).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := domain.NewFormState()
	if err := json.Unmarshal([]byte(snapshot), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s = s.Clone()
	return &s, nil
}

func (r *Repository) SaveState(ctx context.Context, sessionID string, s domain.FormState) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO form_states (session_id, snapshot, updated_at) VALUES (?,?,?)
		ON CONFLICT(session_id) DO UPDATE SET snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		sessionID, string(b), r.now().UTC())
	return err
}

func (r *Repository) DeleteState(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM form_states WHERE session_id=?`, sessionID)
	return err
}

// ── Verification outcomes ─────────────────────────────────────────────────────

// SaveOutcome records o. A successful outcome carrying customer details also
// refreshes the details kept for prefill.
func (r *Repository) SaveOutcome(ctx context.Context, o *domain.VerificationOutcome) error {
	reqJSON, err := json.Marshal(o.Request)
	if err != nil {
		return err
	}
	var respJSON sql.NullString
	if o.Response != nil {
		b, err := json.Marshal(o.Response)
		if err != nil {
			return err
		}
		respJSON = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO verification_outcomes (
			session_id, mobile_no, success, error_type, status_code,
			request_json, response_json, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		o.SessionID, o.MobileNo, boolToInt(o.Success), o.ErrorType, o.StatusCode,
		string(reqJSON), respJSON, o.CreatedAt,
	)
	if err != nil {
		return err
	}

	if o.Success && o.MobileNo != "" && o.Response != nil && o.Response.Data.CustomerDetails != nil {
		if err := upsertDetails(ctx, tx, o.MobileNo, o.Response.Data.CustomerDetails, r.now().UTC()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) LatestOutcome(ctx context.Context, sessionID string) (*domain.VerificationOutcome, error) {
	o := &domain.VerificationOutcome{}
	var success int
	var reqJSON string
	var respJSON sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, mobile_no, success, error_type, status_code,
		       request_json, response_json, created_at
		FROM verification_outcomes WHERE session_id=? ORDER BY id DESC LIMIT 1`, sessionID).Scan(
		&o.SessionID, &o.MobileNo, &success, &o.ErrorType, &o.StatusCode,
		&reqJSON, &respJSON, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Success = success == 1
	if err := json.Unmarshal([]byte(reqJSON), &o.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if respJSON.Valid {
		o.Response = &domain.VerifyResponse{}
		if err := json.Unmarshal([]byte(respJSON.String), o.Response); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return o, nil
}

// ── Customer details ──────────────────────────────────────────────────────────

func (r *Repository) CustomerDetails(ctx context.Context, mobileNo string) (*domain.CustomerDetails, error) {
	d := &domain.CustomerDetails{}
	err := r.db.QueryRowContext(ctx, `
		SELECT full_name, dob, pan, pin_code, city, gender
		FROM customer_details WHERE mobile_no=?`, mobileNo).Scan(
		&d.CustomerFullName, &d.DOB, &d.PAN, &d.PinCode, &d.City, &d.Gender,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repository) SaveCustomerDetails(ctx context.Context, mobileNo string, d *domain.CustomerDetails) error {
	return upsertDetails(ctx, r.db, mobileNo, d, r.now().UTC())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertDetails(ctx context.Context, db execer, mobileNo string, d *domain.CustomerDetails, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO customer_details (mobile_no, full_name, dob, pan, pin_code, city, gender, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(mobile_no) DO UPDATE SET
			full_name=excluded.full_name, dob=excluded.dob, pan=excluded.pan,
			pin_code=excluded.pin_code, city=excluded.city, gender=excluded.gender,
			updated_at=excluded.updated_at`,
		mobileNo, d.CustomerFullName, d.DOB, d.PAN, d.PinCode, d.City, d.Gender, at,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
