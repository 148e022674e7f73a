package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/x-xyz/marketclient/base/backoff"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/domain/keys"
	"github.com/x-xyz/marketclient/service/cache"
)

type MetadataUseCaseCfg struct {
	WebResource domain.WebResourceUseCase
	// Cache keeps parsed records, optional
	Cache cache.Service
	// Retries is the number of extra attempts after a failed retrieval
	Retries       int
	RetryInterval time.Duration
}

type metadataUseCase struct {
	webResource   domain.WebResourceUseCase
	cache         cache.Service
	retries       int
	retryInterval time.Duration
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) domain.MetadataUseCase {
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &metadataUseCase{
		webResource:   cfg.WebResource,
		cache:         cfg.Cache,
		retries:       cfg.Retries,
		retryInterval: interval,
	}
}

func (u *metadataUseCase) Fetch(c bCtx.Ctx, uri string) (*domain.MetadataRecord, error) {
	c = bCtx.WithValue(c, "uri", uri)
	if u.cache == nil {
		return u.fetch(c, uri)
	}

	record := domain.MetadataRecord{}
	getter := func() (interface{}, error) {
		return u.fetch(c, uri)
	}
	if err := u.cache.GetByFunc(c, keys.MetadataKey(uri), &record, getter); err != nil {
		return nil, err
	}
	return &record, nil
}

func (u *metadataUseCase) fetch(c bCtx.Ctx, uri string) (*domain.MetadataRecord, error) {
	var data []byte
	b := backoff.NewExponential(u.retryInterval, 8*u.retryInterval)
	err := backoff.Retry(c, b, u.retries, retryable, func() error {
		var err error
		data, err = u.webResource.GetJson(c, uri)
		return err
	})
	if err != nil {
		c.WithField("err", err).Warn("webResource.GetJson failed")
		if errors.Is(err, domain.ErrInvalidJsonFormat) {
			return nil, domain.NewError(domain.ErrMetadataInvalid, err)
		}
		return nil, domain.NewError(domain.ErrMetadataUnreachable, err)
	}

	record, err := parseRecord(data)
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"data": truncate(data, 256),
		}).Warn("parseRecord failed")
		return nil, domain.NewError(domain.ErrMetadataInvalid, err)
	}
	return record, nil
}

// retryable reports whether another attempt could change the outcome
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInvalidJsonFormat),
		errors.Is(err, domain.ErrUnsupportedSchema),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// parseRecord requires a json object, name, description and image must be strings when present
func parseRecord(data []byte) (*domain.MetadataRecord, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("metadata is null")
	}

	record := &domain.MetadataRecord{}
	for key, dst := range map[string]*string{
		"name":        &record.Name,
		"description": &record.Description,
		"image":       &record.ImageRef,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, errors.New("metadata field " + key + " is not a string")
		}
	}
	return record, nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
