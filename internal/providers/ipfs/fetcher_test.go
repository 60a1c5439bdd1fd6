package ipfs_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/mocks"
	"github.com/artfolio/artwork-indexer/internal/providers/ipfs"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testFetcherMocks struct {
	ctrl       *gomock.Controller
	httpClient *mocks.MockHTTPClient
	fetcher    ipfs.Fetcher
}

func setupTestFetcher(t *testing.T, gateways []string) *testFetcherMocks {
	ctrl := gomock.NewController(t)

	tm := &testFetcherMocks{
		ctrl:       ctrl,
		httpClient: mocks.NewMockHTTPClient(ctrl),
	}
	tm.fetcher = ipfs.NewFetcher(tm.httpClient, ipfs.Config{Gateways: gateways})

	return tm
}

func TestFetch_IPFSScheme(t *testing.T) {
	tm := setupTestFetcher(t, []string{"https://gateway-a.example", "https://gateway-b.example"})
	defer tm.ctrl.Finish()

	document := []byte(`{"name":"Sunset"}`)

	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-a.example/ipfs/QmTestCID/1.json").
		Return(document, nil)
	// the losing gateway may or may not get queried before the winner returns
	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-b.example/ipfs/QmTestCID/1.json").
		Return(nil, fmt.Errorf("504 gateway timeout")).
		AnyTimes()

	data, err := tm.fetcher.Fetch(context.Background(), "ipfs://QmTestCID/1.json")
	require.NoError(t, err)
	assert.Equal(t, document, data)
}

func TestFetch_GatewayURLRefansOut(t *testing.T) {
	tm := setupTestFetcher(t, []string{"https://gateway-a.example"})
	defer tm.ctrl.Finish()

	document := []byte(`{"name":"Sunset"}`)

	// the CID path is extracted and routed through our own gateway
	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-a.example/ipfs/QmTestCID/1.json").
		Return(document, nil)

	data, err := tm.fetcher.Fetch(context.Background(), "https://someones-node.example/ipfs/QmTestCID/1.json")
	require.NoError(t, err)
	assert.Equal(t, document, data)
}

func TestFetch_BareCIDPath(t *testing.T) {
	tm := setupTestFetcher(t, []string{"https://gateway-a.example/"})
	defer tm.ctrl.Finish()

	document := []byte(`{"name":"Sunset"}`)

	// trailing slash on the gateway must not double up
	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-a.example/ipfs/QmTestCID").
		Return(document, nil)

	data, err := tm.fetcher.Fetch(context.Background(), "QmTestCID")
	require.NoError(t, err)
	assert.Equal(t, document, data)
}

func TestFetch_PlainHTTPURL(t *testing.T) {
	tm := setupTestFetcher(t, []string{"https://gateway-a.example"})
	defer tm.ctrl.Finish()

	document := []byte(`{"name":"Sunset"}`)

	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://metadata.example/artworks/1.json").
		Return(document, nil)

	data, err := tm.fetcher.Fetch(context.Background(), "https://metadata.example/artworks/1.json")
	require.NoError(t, err)
	assert.Equal(t, document, data)
}

func TestFetch_AllGatewaysMissReturnsNil(t *testing.T) {
	tm := setupTestFetcher(t, []string{"https://gateway-a.example", "https://gateway-b.example"})
	defer tm.ctrl.Finish()

	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-a.example/ipfs/QmMissing").
		Return(nil, nil)
	tm.httpClient.EXPECT().
		Get(gomock.Any(), "https://gateway-b.example/ipfs/QmMissing").
		Return(nil, fmt.Errorf("404 not found"))

	data, err := tm.fetcher.Fetch(context.Background(), "ipfs://QmMissing")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestFetch_NoGatewaysConfigured(t *testing.T) {
	tm := setupTestFetcher(t, nil)
	defer tm.ctrl.Finish()

	data, err := tm.fetcher.Fetch(context.Background(), "ipfs://QmTestCID")
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestFetch_DataURIBase64(t *testing.T) {
	tm := setupTestFetcher(t, nil)
	defer tm.ctrl.Finish()

	document := `{"name":"Sunset","image":"ipfs://QmImage"}`
	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(document))

	data, err := tm.fetcher.Fetch(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, []byte(document), data)
}

func TestFetch_DataURIPlain(t *testing.T) {
	tm := setupTestFetcher(t, nil)
	defer tm.ctrl.Finish()

	data, err := tm.fetcher.Fetch(context.Background(), `data:application/json,{"name":"Sunset"}`)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"Sunset"}`), data)
}

func TestFetch_DataURIInvalid(t *testing.T) {
	tm := setupTestFetcher(t, nil)
	defer tm.ctrl.Finish()

	t.Run("no comma", func(t *testing.T) {
		data, err := tm.fetcher.Fetch(context.Background(), "data:application/json;base64")
		assert.Error(t, err)
		assert.Nil(t, data)
	})

	t.Run("bad base64", func(t *testing.T) {
		data, err := tm.fetcher.Fetch(context.Background(), "data:application/json;base64,!!!not-base64!!!")
		assert.Error(t, err)
		assert.Nil(t, data)
	})
}
