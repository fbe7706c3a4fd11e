package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Schema creates the tables used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS loan_applications (
	id                    UUID PRIMARY KEY,
	draft_id              TEXT NOT NULL,
	loan_type_id          TEXT NOT NULL,
	amount                NUMERIC(14, 2) NOT NULL,
	duration_months       INTEGER NOT NULL,
	service_fee           NUMERIC(14, 2) NOT NULL,
	net_amount_received   NUMERIC(14, 2) NOT NULL,
	monthly_payment       NUMERIC(14, 2) NOT NULL,
	total_repayment       NUMERIC(14, 2) NOT NULL,
	monthly_interest_rate NUMERIC(7, 4) NOT NULL,
	applicant             JSONB NOT NULL,
	employment            JSONB NOT NULL,
	banking               JSONB NOT NULL,
	status                TEXT NOT NULL,
	submitted_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS application_documents (
	id             UUID PRIMARY KEY,
	application_id UUID NOT NULL REFERENCES loan_applications (id),
	document_type  TEXT NOT NULL,
	filename       TEXT NOT NULL,
	path           TEXT NOT NULL UNIQUE,
	content        BYTEA NOT NULL,
	size_bytes     INTEGER NOT NULL,
	uploaded_at    TIMESTAMPTZ NOT NULL
);
`

const insertApplicationSQL = `INSERT INTO loan_applications (
	id, draft_id, loan_type_id, amount, duration_months, service_fee, net_amount_received,
	monthly_payment, total_repayment, monthly_interest_rate, applicant, employment, banking,
	status, submitted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const insertDocumentSQL = `INSERT INTO application_documents (
	id, application_id, document_type, filename, path, content, size_bytes, uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (path) DO UPDATE SET content = EXCLUDED.content, size_bytes = EXCLUDED.size_bytes, uploaded_at = EXCLUDED.uploaded_at`

// PostgreSQL SQLSTATE codes inspected when mapping driver errors.
const (
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqInvalidTextRep      pq.ErrorCode = "22P02"
)

// OpenPostgres opens a connection pool for driver and dsn and verifies it.
func OpenPostgres(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return db, nil
}

// PostgresRepository stores applications and documents in PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewPostgresRepository creates a repository on db.
func NewPostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Migrate creates the repository tables if they do not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateApplication inserts record into loan_applications.
func (r *PostgresRepository) CreateApplication(ctx context.Context, record Record) (string, error) {
	applicant, err := json.Marshal(record.Applicant)
	if err != nil {
		return "", NewInsertFailedError(err, false)
	}
	employment, err := json.Marshal(record.Employment)
	if err != nil {
		return "", NewInsertFailedError(err, false)
	}
	banking, err := json.Marshal(record.Banking)
	if err != nil {
		return "", NewInsertFailedError(err, false)
	}

	id := r.newID()
	_, err = r.db.ExecContext(ctx, insertApplicationSQL,
		id, record.DraftID, record.LoanTypeID, record.Amount, record.DurationMonths,
		record.ServiceFee, record.NetAmountReceived, record.MonthlyPayment, record.TotalRepayment,
		record.MonthlyInterestRate, applicant, employment, banking,
		record.Status, record.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert loan application",
			zap.String("op", "submission.PostgresRepository.CreateApplication"),
			zap.String("draft_id", record.DraftID),
			zap.String("loan_type", record.LoanTypeID),
			zap.Error(err),
		)
		return "", NewInsertFailedError(err, retryable(err))
	}

	r.logger.Info("loan application stored",
		zap.String("op", "submission.PostgresRepository.CreateApplication"),
		zap.String("application_id", id),
		zap.String("loan_type", record.LoanTypeID),
	)
	return id, nil
}

// UploadDocument stores data in application_documents. Uploading the same
// document type and filename again replaces the content.
func (r *PostgresRepository) UploadDocument(ctx context.Context, applicationID, documentType, filename string, data []byte) (string, error) {
	name, err := validateDocument(applicationID, documentType, filename, data)
	if err != nil {
		return "", err
	}

	p := DocumentPath(applicationID, documentType, name)
	_, err = r.db.ExecContext(ctx, insertDocumentSQL,
		r.newID(), applicationID, documentType, name, p, data, len(data), r.now().UTC(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == pqForeignKeyViolation || pqErr.Code == pqInvalidTextRep) {
			return "", NewApplicationNotFoundError(applicationID)
		}
		r.logger.Error("failed to store application document",
			zap.String("op", "submission.PostgresRepository.UploadDocument"),
			zap.String("application_id", applicationID),
			zap.String("document_type", documentType),
			zap.Error(err),
		)
		return "", NewUploadFailedError(err, retryable(err))
	}
	return p, nil
}

// retryable reports whether a driver error is worth retrying. Constraint
// and data errors are permanent; connection and resource errors are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "40", "53", "57":
			return true
		default:
			return false
		}
	}
	return true
}
