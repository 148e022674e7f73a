package usecase

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
)

type WebResourceUseCaseCfg struct {
	HttpReader    domain.WebResourceReaderRepository
	IpfsReader    domain.WebResourceReaderRepository
	DataUriReader domain.WebResourceReaderRepository
	ArUriReader   domain.WebResourceReaderRepository
}

type webResourceUseCase struct {
	readers map[string]domain.WebResourceReaderRepository
}

func NewWebResourceUseCase(cfg *WebResourceUseCaseCfg) domain.WebResourceUseCase {
	readers := map[string]domain.WebResourceReaderRepository{}
	add := func(r domain.WebResourceReaderRepository, schemes ...string) {
		if r == nil {
			return
		}
		for _, s := range schemes {
			readers[s] = r
		}
	}
	add(cfg.HttpReader, "http", "https")
	add(cfg.IpfsReader, "ipfs")
	add(cfg.DataUriReader, "data")
	add(cfg.ArUriReader, "ar")
	return &webResourceUseCase{readers: readers}
}

func (u *webResourceUseCase) Get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	return u.get(c, rawUrl)
}

func (u *webResourceUseCase) GetJson(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	data, err := u.get(c, rawUrl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		c.WithFields(log.Fields{
			"url": rawUrl,
		}).Warn("invalid json")
		return nil, domain.ErrInvalidJsonFormat
	}

	return data, nil
}

func (u *webResourceUseCase) get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	pUrl, err := url.Parse(rawUrl)
	if err != nil {
		c.WithFields(log.Fields{
			"url": rawUrl,
			"err": err,
		}).Warn("failed to parse url")
		return nil, err
	}

	scheme := strings.ToLower(pUrl.Scheme)
	reader, ok := u.readers[scheme]
	if !ok {
		return nil, domain.ErrUnsupportedSchema
	}

	target := rawUrl
	if scheme == "ipfs" {
		target = strings.TrimPrefix(rawUrl[len(pUrl.Scheme)+1:], "//")
		target = strings.TrimPrefix(target, "ipfs/") // early foundation's metadata bug
	}
	data, err := reader.Get(c, target)
	if err == nil {
		return data, nil
	}

	if scheme == "https" || scheme == "http" {
		if ipfsUrl := getIpfsUrl(rawUrl); len(ipfsUrl) > 0 {
			if _, ok := u.readers["ipfs"]; ok {
				c.WithFields(log.Fields{
					"url":     rawUrl,
					"ipfsUrl": ipfsUrl,
				}).Info("falling back to ipfs")
				return u.get(c, ipfsUrl)
			}
		}
	}

	c.WithFields(log.Fields{
		"schema": scheme,
		"url":    rawUrl,
		"err":    err,
	}).Warn("failed to fetch")
	return nil, err
}

var (
	gatewayPrefixes = []string{
		"https://gateway.pinata.cloud/ipfs/",
		"https://ipfs.io/ipfs/",
		"https://cloudflare-ipfs.com/ipfs/",
		"https://ipfs.foundation.app/ipfs/",
		"https://infura-ipfs.io/ipfs/",
	}
	dedicatedPinataRegex = regexp.MustCompile(`^https://[^/]+\.mypinata\.cloud/ipfs/`)
)

// getIpfsUrl rewrites a well known gateway url to ipfs://, "" if url is not one
func getIpfsUrl(url string) string {
	const ipfsPrefix = "ipfs://"
	for _, p := range gatewayPrefixes {
		if strings.HasPrefix(url, p) {
			return ipfsPrefix + strings.TrimPrefix(url, p)
		}
	}
	if dedicatedPinataRegex.MatchString(url) {
		return dedicatedPinataRegex.ReplaceAllLiteralString(url, ipfsPrefix)
	}
	return ""
}
