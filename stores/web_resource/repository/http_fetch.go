package repository

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
)

// MaxBodyBytes bounds every document read over http
const MaxBodyBytes = 4 << 20

// StatusError is returned when the remote answers with anything but 200
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.Url, e.StatusCode)
}

func fetch(c bCtx.Ctx, client *http.Client, timeout time.Duration, url string, headers map[string]string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(c, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed with request")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Warn("resp.StatusCode != 200")
		return nil, &StatusError{Url: url, StatusCode: resp.StatusCode}
	}
	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, MaxBodyBytes)
	}
	return body, nil
}
