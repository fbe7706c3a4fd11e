package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/internal/draft"
	"github.com/iwvelando/loan-calculator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingRepository struct {
	err error
}

func (r failingRepository) CreateApplication(context.Context, Record) (string, error) {
	return "", r.err
}

func (r failingRepository) UploadDocument(context.Context, string, string, string, []byte) (string, error) {
	return "", r.err
}

func completeDraft() *draft.Application {
	lt, _ := catalog.Default().GetLoanType(catalog.Personal)
	return testutil.CompleteDraft(lt, 10000, 12)
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewService(calculator.NewService(catalog.Default(), logger), repo, logger)
}

func TestServiceSubmit(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newTestService(t, repo)
	app := completeDraft()
	app.Quote = &calculator.LoanQuote{MonthlyPayment: 1}

	result, err := svc.Submit(context.Background(), app)
	require.NoError(t, err)
	require.NotEmpty(t, result.ApplicationID)

	assert.InDelta(t, 1259.0198865502043, result.Quote.MonthlyPayment, 1e-9, "client quote must be ignored")
	assert.InDelta(t, 200.0, result.Quote.ServiceFee, 1e-9)

	rec, ok := repo.Application(result.ApplicationID)
	require.True(t, ok)
	assert.Equal(t, app.ID, rec.DraftID)
	assert.Equal(t, catalog.Personal, rec.LoanTypeID)
	assert.InDelta(t, 9800.0, rec.NetAmountReceived, 1e-9)
	assert.Equal(t, StatusSubmitted, rec.Status)
	assert.Len(t, rec.Documents, 4)
}

func TestServiceSubmitNormalizesLoanTypeID(t *testing.T) {
	svc := newTestService(t, NewMemoryRepository())
	app := completeDraft()
	app.LoanTypeID = " personal "

	result, err := svc.Submit(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, catalog.Personal, result.Record.LoanTypeID)
}

func TestServiceSubmitRejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(app *draft.Application)
		wantErr  error
		wantCode ErrorCode
	}{
		{
			name:    "Unknown loan type",
			mutate:  func(app *draft.Application) { app.LoanTypeID = "MORTGAGE" },
			wantErr: catalog.ErrUnknownLoanType,
		},
		{
			name:    "Amount out of range",
			mutate:  func(app *draft.Application) { app.Amount = 60000 },
			wantErr: calculator.ErrInvalidAmount,
		},
		{
			name:    "Duration out of range",
			mutate:  func(app *draft.Application) { app.DurationMonths = 48 },
			wantErr: calculator.ErrInvalidDuration,
		},
		{
			name:     "Missing applicant name",
			mutate:   func(app *draft.Application) { app.Personal.FullName = " " },
			wantCode: CodeInvalidApplication,
		},
		{
			name:     "Missing bank account",
			mutate:   func(app *draft.Application) { app.Banking.AccountNumber = "" },
			wantCode: CodeInvalidApplication,
		},
		{
			name:     "Missing required document",
			mutate:   func(app *draft.Application) { app.Documents = app.Documents[:2] },
			wantCode: CodeInvalidApplication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepository()
			svc := newTestService(t, repo)
			app := completeDraft()
			tt.mutate(app)

			_, err := svc.Submit(context.Background(), app)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, CodeOf(err))
			}
			assert.Empty(t, repo.applications)
		})
	}
}

func TestServiceSubmitMissingDocumentsListed(t *testing.T) {
	svc := newTestService(t, NewMemoryRepository())
	app := completeDraft()
	app.Documents = nil

	_, err := svc.Submit(context.Background(), app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.DocNRC)
	assert.Contains(t, err.Error(), catalog.DocProofOfResidence)
}

func TestServiceSubmitNilDraft(t *testing.T) {
	svc := newTestService(t, NewMemoryRepository())
	_, err := svc.Submit(context.Background(), nil)
	assert.Equal(t, CodeInvalidApplication, CodeOf(err))
}

func TestServiceSubmitRepositoryFailure(t *testing.T) {
	svc := newTestService(t, failingRepository{err: NewInsertFailedError(errors.New("timeout"), true)})

	_, err := svc.Submit(context.Background(), completeDraft())
	assert.Equal(t, CodeDatabaseInsertFailed, CodeOf(err))
	assert.True(t, IsRetryable(err))
}

func TestServiceUploadDocument(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	result, err := svc.Submit(ctx, completeDraft())
	require.NoError(t, err)

	p, err := svc.UploadDocument(ctx, result.ApplicationID, catalog.DocNRC, "nrc.pdf", []byte("scan"))
	require.NoError(t, err)
	_, ok := repo.Document(p)
	assert.True(t, ok)

	_, err = svc.UploadDocument(ctx, "missing", catalog.DocNRC, "nrc.pdf", []byte("scan"))
	assert.Equal(t, CodeApplicationNotFound, CodeOf(err))
}
