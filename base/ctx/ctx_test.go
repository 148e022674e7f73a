package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "listingId", 7)
	ts.Equal(7, ctx.Value("listingId"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"uri":    "ipfs://cid",
		"txHash": "0x01",
	})
	ts.Equal("ipfs://cid", ctx.Value("uri"))
	ts.Equal("0x01", ctx.Value("txHash"))
}

func (ts *testsuite) TestWithCancel() {
	ctx, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context was not cancelled")
	}
	ts.Equal(context.Canceled, ctx.Err())
}

func (ts *testsuite) TestTimeout() {
	ctx, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal(context.DeadlineExceeded, ctx.Err())
}

func (ts *testsuite) TestDetach() {
	parent, cancel := WithCancel(WithValue(Background(), "requestID", "r1"))
	detached := Detach(parent)
	cancel()

	ts.Error(parent.Err())
	ts.NoError(detached.Err())
	// values are dropped, the logger is kept
	ts.Nil(detached.Value("requestID"))
	ts.Equal(parent.Logger, detached.Logger)
}

func (ts *testsuite) TestFrom() {
	c := WithValue(Background(), "k", "v")
	ts.Equal(c, From(c))

	plain := From(context.Background())
	ts.NoError(plain.Err())
}
