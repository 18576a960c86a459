package depth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	mock "github.com/AzuraKiko/CBOE-log/pkg/questdb/mock"
)

func testRun() *Run {
	return &Run{
		ID:        "01JD0000000000000000000000",
		Symbol:    "BHP",
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Levels: []Level{
			{Side: "ask", Rank: 0, Price: 64.28, Quantity: 100, Orders: 1, LevelTime: 1700000000000.5},
			{Side: "bid", Rank: 0, Price: 64.20, Quantity: 80, Orders: 2, LevelTime: 1700000000000.1},
		},
		Trades: []Trade{
			{Price: 64.25, Quantity: 40, Time: 1700000000000.25},
		},
	}
}

func TestRepository_EnsureTables(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "level table failure",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(errors.New("error"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			repo := NewRepository(client)
			tc.assertFn(t, repo.EnsureTables(context.Background()))
		})
	}
}

func TestRepository_StoreRun(t *testing.T) {
	testCases := []struct {
		name     string
		run      *Run
		mockFn   func(run *Run, mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			run:  testRun(),
			mockFn: func(run *Run, mock *mock.MockQuestDBClient) {
				mock.EXPECT().
					CopyFrom(gomock.Any(), pgx.Identifier{"depth_levels"}, gomock.Any(), gomock.Any()).
					Return(int64(len(run.Levels)), nil)
				mock.EXPECT().
					CopyFrom(gomock.Any(), pgx.Identifier{"depth_trades"}, gomock.Any(), gomock.Any()).
					Return(int64(len(run.Trades)), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "level copy failure",
			run:  testRun(),
			mockFn: func(run *Run, mock *mock.MockQuestDBClient) {
				mock.EXPECT().
					CopyFrom(gomock.Any(), pgx.Identifier{"depth_levels"}, gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("error"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "empty run writes nothing",
			run: &Run{
				ID:        "01JD0000000000000000000001",
				Symbol:    "BHP",
				CreatedAt: time.Now(),
			},
			mockFn: func(run *Run, mock *mock.MockQuestDBClient) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(tc.run, client)

			repo := NewRepository(client)
			tc.assertFn(t, repo.StoreRun(context.Background(), tc.run))
		})
	}
}
