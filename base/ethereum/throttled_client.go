package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ThrottledClient caps the number of in-flight rpc calls of an ethclient
type ThrottledClient struct {
	*ethclient.Client
	tokens chan struct{}
}

func NewTrottledClient(client *ethclient.Client, n int) *ThrottledClient {
	if n <= 0 {
		n = 1
	}
	tokens := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		tokens <- struct{}{}
	}
	return &ThrottledClient{
		Client: client,
		tokens: tokens,
	}
}

// Dial connects to rpcUrl allowing at most n concurrent calls
func Dial(ctx context.Context, rpcUrl string, n int) (*ThrottledClient, error) {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, err
	}
	return NewTrottledClient(client, n), nil
}

func (c *ThrottledClient) ChainID(ctx context.Context) (*big.Int, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.ChainID(ctx)
}

func (c *ThrottledClient) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.before(ctx); err != nil {
		return 0, err
	}
	defer c.after()
	return c.Client.BlockNumber(ctx)
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.CodeAt(ctx, address, number)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := c.before(ctx); err != nil {
		return 0, err
	}
	defer c.after()
	return c.Client.PendingNonceAt(ctx, account)
}

func (c *ThrottledClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.SuggestGasPrice(ctx)
}

func (c *ThrottledClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.SuggestGasTipCap(ctx)
}

func (c *ThrottledClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if err := c.before(ctx); err != nil {
		return 0, err
	}
	defer c.after()
	return c.Client.EstimateGas(ctx, msg)
}

func (c *ThrottledClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.before(ctx); err != nil {
		return err
	}
	defer c.after()
	return c.Client.SendTransaction(ctx, tx)
}

func (c *ThrottledClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}
	defer c.after()
	return c.Client.TransactionReceipt(ctx, hash)
}

func (c *ThrottledClient) before(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.tokens:
		return nil
	}
}

func (c *ThrottledClient) after() {
	c.tokens <- struct{}{}
}
