package repository

import (
	"net/http"
	"strings"
	"time"

	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

const (
	arUriSchema      = "ar://"
	DefaultArGateway = "https://arweave.net"
)

type arReaderRepo struct {
	client     *http.Client
	gateway    string
	ctxTimeout time.Duration
	headers    map[string]string
}

func NewArReaderRepo(client *http.Client, gateway string, timeout time.Duration, headers map[string]string) domain.WebResourceReaderRepository {
	if gateway == "" {
		gateway = DefaultArGateway
	}
	return &arReaderRepo{client: client, gateway: strings.TrimSuffix(gateway, "/"), ctxTimeout: timeout, headers: headers}
}

func (r *arReaderRepo) Get(c bCtx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, arUriSchema) {
		return nil, xerrors.Errorf("invalid ar uri")
	}
	url := r.gateway + "/" + strings.TrimPrefix(uri, arUriSchema)
	return fetch(c, r.client, r.ctxTimeout, url, r.headers)
}
