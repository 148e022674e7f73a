package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/metrics"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/domain/keys"
	"github.com/x-xyz/marketclient/service/cache/provider"
	"github.com/x-xyz/marketclient/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type countSink struct {
	metrics.LogClient
	counts map[string]int64
	tags   map[string][]string
}

func (s *countSink) Count(name string, value int64, tags []string, _ float64) error {
	s.counts[name] += value
	s.tags[name] = tags
	return nil
}

type cacheSuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
	sink  *countSink
}

func TestCache(t *testing.T) {
	suite.Run(t, new(cacheSuite))
}

func (s *cacheSuite) SetupTest() {
	s.cache = primitive.NewPrimitive("test", 1)
	s.sink = &countSink{counts: map[string]int64{}, tags: map[string][]string{}}
	s.im = New(ServiceConfig{
		Ttl:     time.Second,
		Cache:   s.cache,
		Metrics: metrics.New("metadata", metrics.WithSink(s.sink)),
	}).(*impl)
}

func record() domain.MetadataRecord {
	return domain.MetadataRecord{Name: "asset 11", Description: "first drop", ImageRef: "ipfs://QmImg/11.png"}
}

func (s *cacheSuite) TestGetExpires() {
	k := keys.MetadataKey("ipfs://QmCid/11.json")
	got := &domain.MetadataRecord{}

	s.Equal(ErrNotFound, s.im.Get(mockCtx, k, got))

	raw, err := json.Marshal(record())
	s.NoError(err)
	s.NoError(s.cache.Set(mockCtx, k, raw, time.Second))
	s.NoError(s.im.Get(mockCtx, k, got))
	s.Equal(record(), *got)

	time.Sleep(1100 * time.Millisecond)
	_, _, err = s.cache.Get(mockCtx, k)
	s.Equal(provider.ErrNotFound, err)
}

func (s *cacheSuite) TestSetDel() {
	k := keys.MetadataKey("https://example.com/11.json")
	got := &domain.MetadataRecord{}

	s.NoError(s.im.Set(mockCtx, k, record()))
	raw, _, err := s.cache.Get(mockCtx, k)
	s.NoError(err)
	s.NoError(json.Unmarshal(raw, got))
	s.Equal(record(), *got)

	s.NoError(s.im.Del(mockCtx, k))
	s.Equal(ErrNotFound, s.im.Get(mockCtx, k, got))
}

func (s *cacheSuite) TestPrefix() {
	im := New(ServiceConfig{Ttl: time.Minute, Pfx: "marketclient", Cache: s.cache}).(*impl)
	s.NoError(im.Set(mockCtx, "k", record()))
	_, _, err := s.cache.Get(mockCtx, "marketclient:k")
	s.NoError(err)
}

func (s *cacheSuite) TestGetByFunc() {
	k := keys.MetadataKey("ipfs://QmCid/11.json")
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		r := record()
		return &r, nil
	}

	first := &domain.MetadataRecord{}
	s.NoError(s.im.GetByFunc(mockCtx, k, first, getter))
	s.Equal(record(), *first)

	second := &domain.MetadataRecord{}
	s.NoError(s.im.GetByFunc(mockCtx, k, second, getter))
	s.Equal(record(), *second)
	s.Equal(1, calls)

	s.Equal(int64(1), s.sink.counts["metadata.cache.miss"])
	s.Equal(int64(1), s.sink.counts["metadata.cache.hit"])
	s.Contains(s.sink.tags["metadata.cache.hit"], "pfx:"+keys.PfxMetadata)
}

func (s *cacheSuite) TestGetByFuncFailureNotCached() {
	k := keys.MetadataKey("https://down.example.com/1.json")
	got := &domain.MetadataRecord{}
	errGet := domain.NewError(domain.ErrMetadataUnreachable, errors.New("503"))

	s.Equal(errGet, s.im.GetByFunc(mockCtx, k, got, func() (interface{}, error) {
		return nil, errGet
	}))
	s.Equal(ErrNotFound, s.im.Get(mockCtx, k, got))

	s.NoError(s.im.GetByFunc(mockCtx, k, got, func() (interface{}, error) {
		return domain.MetadataRecord{Name: "later"}, nil
	}))
	s.Equal("later", got.Name)
}
