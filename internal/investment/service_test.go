package investment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/perchlabs/fundledger/internal/investment"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    investment.CreateParams
		setupMock func(m *investment.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: investment.CreateParams{
				ApplicationID:         uuid.New(),
				CashPrincipalCents:    250_000_00,
				CreditsPrincipalCents: 50_000_00,
				ApprovedBy:            uuid.New(),
			},
			setupMock: func(m *investment.MockRepository) {
				m.EXPECT().
					CreateInvestment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *investment.Investment) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "NegativeCashPrincipal",
			params: investment.CreateParams{
				ApplicationID:      uuid.New(),
				CashPrincipalCents: -1,
			},
			wantErr: true,
		},
		{
			name: "NegativeCreditsPrincipal",
			params: investment.CreateParams{
				ApplicationID:         uuid.New(),
				CreditsPrincipalCents: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := investment.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := investment.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, investment.StatusActive, got.Status)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_SetStatus(t *testing.T) {
	type testCase struct {
		name    string
		from    investment.Status
		to      investment.Status
		wantErr bool
	}

	tests := []testCase{
		{name: "Freeze", from: investment.StatusActive, to: investment.StatusFrozen},
		{name: "Reactivate", from: investment.StatusFrozen, to: investment.StatusActive},
		{name: "CloseActive", from: investment.StatusActive, to: investment.StatusClosed},
		{name: "CloseFrozen", from: investment.StatusFrozen, to: investment.StatusClosed},
		{name: "ReopenClosed", from: investment.StatusClosed, to: investment.StatusActive, wantErr: true},
		{name: "NoOp", from: investment.StatusActive, to: investment.StatusActive, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := investment.NewMockRepository(ctrl)

			inv := &investment.Investment{ID: uuid.New(), Status: tt.from}
			repo.EXPECT().GetInvestment(gomock.Any(), inv.ID).Return(inv, nil)

			if !tt.wantErr {
				repo.EXPECT().UpdateStatus(gomock.Any(), inv.ID, tt.to).Return(nil)
			}

			svc := investment.NewService(repo)

			got, err := svc.SetStatus(context.Background(), inv.ID, tt.to)

			if tt.wantErr {
				assert.ErrorIs(t, err, investment.ErrInvalidTransition)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}
