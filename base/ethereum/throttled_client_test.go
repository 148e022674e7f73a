package ethereum

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottleWaitsForToken(t *testing.T) {
	req := require.New(t)
	c := NewTrottledClient(nil, 1)

	req.NoError(c.before(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req.Equal(context.DeadlineExceeded, c.before(ctx))

	c.after()
	req.NoError(c.before(context.Background()))
	c.after()
}
