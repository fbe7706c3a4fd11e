package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iwvelando/loan-calculator/internal/draft"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testApplicationID = "6f1c2a9e-4b7d-4c1e-9a53-0d8e2f7b1a11"

func newTestRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPostgresRepository(db, zaptest.NewLogger(t))
	repo.newID = func() string { return testApplicationID }
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return repo, mock
}

func testRecord() Record {
	return Record{
		DraftID:             "draft-1",
		LoanTypeID:          "PERSONAL",
		Amount:              10000,
		DurationMonths:      12,
		ServiceFee:          200,
		NetAmountReceived:   9800,
		MonthlyPayment:      1259.0198865502043,
		TotalRepayment:      15108.238638602452,
		MonthlyInterestRate: 7,
		Applicant:           draft.PersonalDetails{FullName: "Mutale Banda", NRCNumber: "123456/10/1"},
		Status:              StatusSubmitted,
		SubmittedAt:         time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestPostgresRepositoryCreateApplication(t *testing.T) {
	repo, mock := newTestRepository(t)
	rec := testRecord()

	mock.ExpectExec(`INSERT INTO loan_applications`).
		WithArgs(
			testApplicationID, rec.DraftID, rec.LoanTypeID, rec.Amount, rec.DurationMonths,
			rec.ServiceFee, rec.NetAmountReceived, rec.MonthlyPayment, rec.TotalRepayment,
			rec.MonthlyInterestRate, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			StatusSubmitted, rec.SubmittedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.CreateApplication(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, testApplicationID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateApplicationErrors(t *testing.T) {
	tests := []struct {
		name          string
		dbErr         error
		wantRetryable bool
	}{
		{name: "Connection lost", dbErr: errors.New("dial tcp: connection refused"), wantRetryable: true},
		{name: "Serialization failure", dbErr: &pq.Error{Code: "40001"}, wantRetryable: true},
		{name: "Unique violation", dbErr: &pq.Error{Code: "23505"}, wantRetryable: false},
		{name: "Cancelled", dbErr: context.Canceled, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)
			mock.ExpectExec(`INSERT INTO loan_applications`).WillReturnError(tt.dbErr)

			_, err := repo.CreateApplication(context.Background(), testRecord())
			require.Error(t, err)
			assert.Equal(t, CodeDatabaseInsertFailed, CodeOf(err))
			assert.Equal(t, tt.wantRetryable, IsRetryable(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepositoryUploadDocument(t *testing.T) {
	repo, mock := newTestRepository(t)
	data := []byte("%PDF-1.4 payslip")
	expectedPath := DocumentPath(testApplicationID, "payslips", "march.pdf")

	mock.ExpectExec(`INSERT INTO application_documents`).
		WithArgs(testApplicationID, testApplicationID, "payslips", "march.pdf", expectedPath, data, len(data), repo.now()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := repo.UploadDocument(context.Background(), testApplicationID, "payslips", "uploads/march.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, expectedPath, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUploadDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		wantCode ErrorCode
	}{
		{name: "Unknown application", dbErr: &pq.Error{Code: "23503"}, wantCode: CodeApplicationNotFound},
		{name: "Malformed application id", dbErr: &pq.Error{Code: "22P02"}, wantCode: CodeApplicationNotFound},
		{name: "Disk full", dbErr: &pq.Error{Code: "53100"}, wantCode: CodeDocumentUploadFailed},
		{name: "Other failure", dbErr: errors.New("boom"), wantCode: CodeDocumentUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)
			mock.ExpectExec(`INSERT INTO application_documents`).WillReturnError(tt.dbErr)

			_, err := repo.UploadDocument(context.Background(), testApplicationID, "nrc", "nrc.pdf", []byte("x"))
			assert.Equal(t, tt.wantCode, CodeOf(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepositoryUploadDocumentValidation(t *testing.T) {
	repo, mock := newTestRepository(t)

	_, err := repo.UploadDocument(context.Background(), testApplicationID, "nrc", "nrc.pdf", nil)
	assert.Equal(t, CodeInvalidDocument, CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryMigrate(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS loan_applications`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
