package repository

import (
	"net/http"
	"strings"
	"time"

	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
)

type ipfsGatewayReaderRepo struct {
	client     *http.Client
	gateway    string
	ctxTimeout time.Duration
}

// NewIpfsGatewayReaderRepo reads "<cid>/<path>" through gateway. Both https://ipfs.io and
// https://ipfs.io/ipfs resolve to https://ipfs.io/ipfs/<cid>/<path>.
func NewIpfsGatewayReaderRepo(c *http.Client, gateway string, timeout time.Duration) domain.WebResourceReaderRepository {
	gateway = strings.TrimRight(gateway, "/")
	if !strings.HasSuffix(gateway, "/ipfs") {
		gateway += "/ipfs"
	}
	return &ipfsGatewayReaderRepo{client: c, gateway: gateway, ctxTimeout: timeout}
}

func (r *ipfsGatewayReaderRepo) Get(c bCtx.Ctx, cid string) ([]byte, error) {
	return fetch(bCtx.WithValue(c, "cid", cid), r.client, r.ctxTimeout, r.gateway+"/"+cid, nil)
}
