package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/bol_export/internal/domain"
	"github.com/Gunvolt24/bol_export/internal/ports/mocks"
)

func newHealthFixture(t *testing.T) (*mocks.MockTokenSource, *mocks.MockOrderFetcher, *HealthCheck) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tokens := mocks.NewMockTokenSource(ctrl)
	fetcher := mocks.NewMockOrderFetcher(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	return tokens, fetcher, NewHealthCheck(tokens, fetcher, log, "FBR")
}

func TestHealthCheck_AllPass(t *testing.T) {
	tokens, fetcher, hc := newHealthFixture(t)
	ctx := context.Background()

	tokens.EXPECT().Token(ctx).Return("tok-123", nil)
	fetcher.EXPECT().ListOrders(ctx, "FBR").Return(domain.OrderList{
		Orders: []domain.OrderSummary{{OrderID: "A-1"}},
	}, nil)

	results := hc.Run(ctx)
	if len(results) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}

func TestHealthCheck_AuthFailureDoesNotStopConnectivity(t *testing.T) {
	tokens, fetcher, hc := newHealthFixture(t)
	ctx := context.Background()

	tokens.EXPECT().Token(ctx).Return("", errors.New("invalid credentials"))
	fetcher.EXPECT().ListOrders(ctx, "FBR").Return(domain.OrderList{}, nil)

	results := hc.Run(ctx)
	if AllPassed(results) {
		t.Fatal("expected auth failure to be reported")
	}
	if results[0].Passed {
		t.Fatalf("expected auth check to fail: %+v", results[0])
	}
	if !results[1].Passed {
		t.Fatalf("expected connectivity check to run and pass: %+v", results[1])
	}
}

func TestHealthCheck_ConnectivityFailure(t *testing.T) {
	tokens, fetcher, hc := newHealthFixture(t)
	ctx := context.Background()

	tokens.EXPECT().Token(ctx).Return("tok-123", nil)
	fetcher.EXPECT().ListOrders(ctx, "FBR").Return(domain.OrderList{}, errors.New("timeout"))

	results := hc.Run(ctx)
	if results[1].Passed {
		t.Fatalf("expected connectivity check to fail: %+v", results[1])
	}
}
