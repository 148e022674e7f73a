package repository

import (
	"io"
	"io/ioutil"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

type ipfsNodeApiReaderRepo struct {
	shell   *ipfsapi.Shell
	timeout time.Duration
}

// NewIpfsNodeApiReaderRepo resolves "<cid>/<path>" with the cat command of an ipfs node
func NewIpfsNodeApiReaderRepo(s *ipfsapi.Shell, timeout time.Duration) domain.WebResourceReaderRepository {
	return &ipfsNodeApiReaderRepo{shell: s, timeout: timeout}
}

func (r *ipfsNodeApiReaderRepo) Get(c bCtx.Ctx, path string) ([]byte, error) {
	c = bCtx.WithValue(c, "cid", path)
	tc, cancel := bCtx.WithTimeout(c, r.timeout)
	defer cancel()

	resp, err := r.shell.Request("cat", "/ipfs/"+path).Send(tc)
	if err != nil {
		c.WithField("err", err).Warn("shell.Request failed")
		return nil, err
	}
	defer resp.Close()
	if resp.Error != nil {
		c.WithFields(log.Fields{
			"code":    resp.Error.Code,
			"message": resp.Error.Message,
		}).Warn("cat failed")
		return nil, xerrors.Errorf("cat %s: %w", path, resp.Error)
	}

	body, err := ioutil.ReadAll(io.LimitReader(resp.Output, MaxBodyBytes+1))
	if err != nil {
		c.WithField("err", err).Warn("failed to read output")
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, xerrors.Errorf("cat %s: output exceeds %d bytes", path, MaxBodyBytes)
	}
	return body, nil
}

