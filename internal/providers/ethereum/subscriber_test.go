package ethereum_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/mocks"
	"github.com/artfolio/artwork-indexer/internal/providers/ethereum"
)

// fakeSubscription satisfies goethereum.Subscription for tests
type fakeSubscription struct {
	errCh chan error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error, 1)}
}

func (s *fakeSubscription) Unsubscribe()      {}
func (s *fakeSubscription) Err() <-chan error { return s.errCh }

func setupTestSubscriber(t *testing.T) (*gomock.Controller, *mocks.MockEthereumClient) {
	ctrl := gomock.NewController(t)
	return ctrl, mocks.NewMockEthereumClient(ctrl)
}

func TestSubscribeEvents_DeliversDecodedEvents(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	fakeSub := newFakeSubscription()
	var logCh chan<- types.Log
	client.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query goethereum.FilterQuery, ch chan<- types.Log) (goethereum.Subscription, error) {
			assert.Equal(t, new(big.Int).SetUint64(100), query.FromBlock)
			require.Len(t, query.Addresses, 1)
			assert.Equal(t, testContractAddr, query.Addresses[0])
			require.Len(t, query.Topics, 1)
			assert.Len(t, query.Topics[0], 6)
			logCh = ch
			return fakeSub, nil
		})

	decoded := &domain.ArtworkEvent{
		Chain:         domain.ChainEthereumMainnet,
		EventType:     domain.EventTypeArtworkCreated,
		ArtworkNumber: "1",
		BlockNumber:   105,
	}
	client.EXPECT().
		ParseEventLog(gomock.Any(), gomock.Any()).
		Return(decoded, nil)

	received := make(chan *domain.ArtworkEvent, 1)
	handler := func(event *domain.ArtworkEvent) error {
		received <- event
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- sub.SubscribeEvents(ctx, 100, handler)
	}()

	require.Eventually(t, func() bool { return logCh != nil }, 2*time.Second, 10*time.Millisecond)
	logCh <- types.Log{BlockNumber: 105}

	select {
	case event := <-received:
		assert.Equal(t, "1", event.ArtworkNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestSubscribeEvents_SkipsUndecodableLogs(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	fakeSub := newFakeSubscription()
	var logCh chan<- types.Log
	client.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ goethereum.FilterQuery, ch chan<- types.Log) (goethereum.Subscription, error) {
			logCh = ch
			return fakeSub, nil
		})

	// first log fails to parse, second is a non-marketplace event, third decodes
	gomock.InOrder(
		client.EXPECT().ParseEventLog(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("bad log")),
		client.EXPECT().ParseEventLog(gomock.Any(), gomock.Any()).Return(nil, nil),
		client.EXPECT().ParseEventLog(gomock.Any(), gomock.Any()).Return(&domain.ArtworkEvent{
			EventType:     domain.EventTypeArtworkPriceSet,
			ArtworkNumber: "7",
		}, nil),
	)

	received := make(chan *domain.ArtworkEvent, 3)
	handler := func(event *domain.ArtworkEvent) error {
		received <- event
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- sub.SubscribeEvents(ctx, 0, handler)
	}()

	require.Eventually(t, func() bool { return logCh != nil }, 2*time.Second, 10*time.Millisecond)
	logCh <- types.Log{BlockNumber: 1}
	logCh <- types.Log{BlockNumber: 2}
	logCh <- types.Log{BlockNumber: 3}

	select {
	case event := <-received:
		assert.Equal(t, "7", event.ArtworkNumber)
		assert.Len(t, received, 0)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestSubscribeEvents_SubscriptionError(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	fakeSub := newFakeSubscription()
	client.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fakeSub, nil)

	fakeSub.errCh <- fmt.Errorf("websocket closed")

	err := sub.SubscribeEvents(context.Background(), 0, func(*domain.ArtworkEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket closed")
}

func TestSubscribeEvents_SubscribeFailure(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	client.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("dial failed"))

	err := sub.SubscribeEvents(context.Background(), 0, func(*domain.ArtworkEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to subscribe to filter logs")
}

func TestGetLatestBlock(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	client.EXPECT().
		HeaderByNumber(gomock.Any(), gomock.Nil()).
		Return(&types.Header{Number: big.NewInt(18000000)}, nil)

	block, err := sub.GetLatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(18000000), block)
}

func TestSubscriberClose(t *testing.T) {
	ctrl, client := setupTestSubscriber(t)
	defer ctrl.Finish()

	sub := ethereum.NewSubscriber(ethereum.Config{
		ChainID:         domain.ChainEthereumMainnet,
		ContractAddress: testContractAddr.Hex(),
	}, client)

	client.EXPECT().Close()

	sub.Close()
}
