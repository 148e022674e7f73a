package domain

import (
	"github.com/x-xyz/marketclient/base/ctx"
)

type WebResourceReaderRepository interface {
	Get(ctx.Ctx, string) ([]byte, error)
}

type WebResourceUseCase interface {
	Get(ctx.Ctx, string) ([]byte, error)
	GetJson(ctx.Ctx, string) ([]byte, error)
}
