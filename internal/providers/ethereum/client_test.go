package ethereum_test

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/mocks"
	"github.com/artfolio/artwork-indexer/internal/providers/ethereum"
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

var (
	testContractAddr = common.HexToAddress("0x1234567890123456789012345678901234567890")
	testArtistAddr   = common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	testBuyerAddr    = common.HexToAddress("0x503828976D22510aad0201ac7EC88293211D23Da")
)

type testClientMocks struct {
	ctrl      *gomock.Controller
	ethClient *mocks.MockEthClient
	clock     *mocks.MockClock
	client    ethereum.Client
}

func setupTestClient(t *testing.T) *testClientMocks {
	ctrl := gomock.NewController(t)

	tm := &testClientMocks{
		ctrl:      ctrl,
		ethClient: mocks.NewMockEthClient(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}
	tm.client = ethereum.NewClient(domain.ChainEthereumMainnet, tm.ethClient, tm.clock)

	return tm
}

// word left-pads a big integer to a 32-byte ABI word
func word(n *big.Int) []byte {
	return common.LeftPadBytes(n.Bytes(), 32)
}

// addressWord left-pads an address to a 32-byte ABI word
func addressWord(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

func expectHeader(tm *testClientMocks, blockNumber uint64, blockTime uint64) {
	tm.ethClient.EXPECT().
		HeaderByNumber(gomock.Any(), new(big.Int).SetUint64(blockNumber)).
		Return(&types.Header{Time: blockTime}, nil)
	tm.clock.EXPECT().
		Unix(int64(blockTime), int64(0)).
		Return(time.Unix(int64(blockTime), 0))
}

func TestParseEventLog_ArtworkCreated(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 100, 1700000000)

	var data []byte
	data = append(data, word(big.NewInt(1))...)
	data = append(data, addressWord(testArtistAddr)...)
	data = append(data, word(big.NewInt(100))...)

	vLog := types.Log{
		Address:     testContractAddr,
		Topics:      []common.Hash{crypto.Keccak256Hash([]byte("ArtworkCreated(uint256,address,uint256)"))},
		Data:        data,
		BlockNumber: 100,
		TxHash:      common.HexToHash("0xabc"),
		Index:       3,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.ChainEthereumMainnet, event.Chain)
	assert.Equal(t, domain.EventTypeArtworkCreated, event.EventType)
	assert.Equal(t, "1", event.ArtworkNumber)
	require.NotNil(t, event.Artist)
	assert.Equal(t, testArtistAddr.Hex(), *event.Artist)
	require.NotNil(t, event.Price)
	assert.Equal(t, "100", *event.Price)
	assert.Nil(t, event.NewOwner)
	assert.Equal(t, uint64(100), event.BlockNumber)
	assert.Equal(t, uint(3), event.LogIndex)
	assert.Equal(t, time.Unix(1700000000, 0), event.Timestamp)
}

func TestParseEventLog_ArtworkSold(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 101, 1700000012)

	var data []byte
	data = append(data, word(big.NewInt(1))...)
	data = append(data, addressWord(testBuyerAddr)...)
	data = append(data, word(big.NewInt(150))...)

	vLog := types.Log{
		Address:     testContractAddr,
		Topics:      []common.Hash{crypto.Keccak256Hash([]byte("ArtworkSold(uint256,address,uint256)"))},
		Data:        data,
		BlockNumber: 101,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventTypeArtworkSold, event.EventType)
	assert.Equal(t, "1", event.ArtworkNumber)
	require.NotNil(t, event.NewOwner)
	assert.Equal(t, testBuyerAddr.Hex(), *event.NewOwner)
	require.NotNil(t, event.Price)
	assert.Equal(t, "150", *event.Price)
	assert.Nil(t, event.Artist)
}

func TestParseEventLog_ArtworkPriceSet(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 102, 1700000024)

	var data []byte
	data = append(data, word(big.NewInt(7))...)
	data = append(data, word(big.NewInt(200))...)

	vLog := types.Log{
		Address:     testContractAddr,
		Topics:      []common.Hash{crypto.Keccak256Hash([]byte("ArtworkPriceSet(uint256,uint256)"))},
		Data:        data,
		BlockNumber: 102,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventTypeArtworkPriceSet, event.EventType)
	assert.Equal(t, "7", event.ArtworkNumber)
	require.NotNil(t, event.Price)
	assert.Equal(t, "200", *event.Price)
}

func TestParseEventLog_ERC721Transfer(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 103, 1700000036)

	vLog := types.Log{
		Address: testContractAddr,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			common.BytesToHash(addressWord(testArtistAddr)),
			common.BytesToHash(addressWord(testBuyerAddr)),
			common.BigToHash(big.NewInt(255)),
		},
		BlockNumber: 103,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventTypeTransfer, event.EventType)
	assert.Equal(t, "255", event.ArtworkNumber)
}

func TestParseEventLog_ERC20TransferIgnored(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 104, 1700000048)

	// ERC20 Transfer has the same topic0 but only 3 topics
	vLog := types.Log{
		Address: testContractAddr,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			common.BytesToHash(addressWord(testArtistAddr)),
			common.BytesToHash(addressWord(testBuyerAddr)),
		},
		BlockNumber: 104,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestParseEventLog_ApprovalForAll(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 105, 1700000060)

	vLog := types.Log{
		Address: testContractAddr,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("ApprovalForAll(address,address,bool)")),
			common.BytesToHash(addressWord(testArtistAddr)),
			common.BytesToHash(addressWord(testBuyerAddr)),
		},
		Data:        word(big.NewInt(1)),
		BlockNumber: 105,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, domain.EventTypeApprovalForAll, event.EventType)
	assert.Equal(t, "0", event.ArtworkNumber)
}

func TestParseEventLog_UnknownTopic(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	expectHeader(tm, 106, 1700000072)

	vLog := types.Log{
		Address:     testContractAddr,
		Topics:      []common.Hash{crypto.Keccak256Hash([]byte("Burned(uint256)"))},
		BlockNumber: 106,
	}

	event, err := tm.client.ParseEventLog(context.Background(), vLog)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestTokenURI(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	returnData, err := abi.Arguments{{Type: stringType}}.Pack("ipfs://QmTestCID/1.json")
	require.NoError(t, err)

	tm.ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, testContractAddr, *msg.To)
			assert.NotEmpty(t, msg.Data)
			return returnData, nil
		})

	uri, err := tm.client.TokenURI(context.Background(), testContractAddr.Hex(), "1")
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmTestCID/1.json", uri)
}

func TestTokenURI_InvalidArtworkNumber(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	_, err := tm.client.TokenURI(context.Background(), testContractAddr.Hex(), "abc")
	assert.Error(t, err)
}

func TestParseEventLog_NoTopics(t *testing.T) {
	tm := setupTestClient(t)
	defer tm.ctrl.Finish()

	event, err := tm.client.ParseEventLog(context.Background(), types.Log{})
	assert.Error(t, err)
	assert.Nil(t, event)
}
