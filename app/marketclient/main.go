package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/console/prompt"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/database/redisclient"
	"github.com/x-xyz/marketclient/base/goroutine"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/base/metrics"
	bValidator "github.com/x-xyz/marketclient/base/validator"
	mmiddleware "github.com/x-xyz/marketclient/middleware"
	"github.com/x-xyz/marketclient/service/cache"
	"github.com/x-xyz/marketclient/service/cache/provider"
	"github.com/x-xyz/marketclient/service/cache/provider/compound"
	"github.com/x-xyz/marketclient/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/marketclient/service/cache/provider/redis"
	"github.com/x-xyz/marketclient/service/chain"
	"github.com/x-xyz/marketclient/service/chain/contract"
	hc_delivery "github.com/x-xyz/marketclient/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketclient/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketclient/stores/healthcheck/usecase"
	listing_delivery "github.com/x-xyz/marketclient/stores/listing/delivery/http"
	listing_repository "github.com/x-xyz/marketclient/stores/listing/repository"
	listing_usecase "github.com/x-xyz/marketclient/stores/listing/usecase"
	metadata_usecase "github.com/x-xyz/marketclient/stores/metadata/usecase"
	purchase_usecase "github.com/x-xyz/marketclient/stores/purchase/usecase"
	wallet_repository "github.com/x-xyz/marketclient/stores/wallet/repository"
	web_resource_repository "github.com/x-xyz/marketclient/stores/web_resource/repository"
	web_resource_usecase "github.com/x-xyz/marketclient/stores/web_resource/usecase"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Log().WithField("err", err).Panic("loadConfig failed")
	}
	if err := log.Init(cfg.Debug); err != nil {
		log.Log().WithField("err", err).Panic("log.Init failed")
	}
	defer log.Sync()
	if cfg.Debug {
		log.Log().Info("Service RUN on DEBUG mode")
	}

	context := ctx.Background()

	// init chain client
	context.Info("init chain client")
	dialCtx, cancel := ctx.WithTimeout(context, cfg.Network.Timeout)
	chainClient, err := chain.NewClient(dialCtx, &chain.ClientCfg{
		RpcUrl:   cfg.Network.RpcUrl,
		Throttle: cfg.Network.Throttle,
	})
	cancel()
	if err != nil {
		context.WithField("err", err).Panic("chain.NewClient failed")
	}

	// init metadata cache, redis is shared between instances and optional
	context.Info("init metadata cache")
	layers := []provider.Provider{primitive.NewPrimitive("metadata", cfg.Metadata.CacheSizeMb)}
	var redisPool redisCache.Pool
	if cfg.Redis.Uri != "" {
		pool, err := redisclient.ConnectRedis(context, cfg.Redis.Uri, cfg.Redis.Password, redisclient.RedisParam{
			PoolMultiplier: cfg.Redis.PoolMultiplier,
			Retries:        2,
		})
		if err != nil {
			context.WithField("err", err).Panic("redisclient.ConnectRedis failed")
		}
		defer pool.Close()
		redisPool = pool
		layers = append(layers, redisCache.NewRedis(pool))
	}
	metadataCache := cache.New(cache.ServiceConfig{
		Ttl:     cfg.Metadata.CacheTtl,
		Cache:   compound.NewCompound(layers),
		Metrics: metrics.New("metadata"),
	})

	// init web resource readers
	httpClient := &http.Client{}
	ipfsReader := web_resource_repository.NewIpfsGatewayReaderRepo(httpClient, cfg.Metadata.IpfsGateway, cfg.Metadata.Timeout)
	if cfg.Metadata.IpfsNodeApi != "" {
		ipfsReader = web_resource_repository.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(cfg.Metadata.IpfsNodeApi), cfg.Metadata.Timeout)
	}
	webResource := web_resource_usecase.NewWebResourceUseCase(&web_resource_usecase.WebResourceUseCaseCfg{
		HttpReader:    web_resource_repository.NewHttpReaderRepo(httpClient, cfg.Metadata.Timeout, cfg.Metadata.Headers),
		IpfsReader:    ipfsReader,
		DataUriReader: web_resource_repository.NewDataUriReaderRepo(),
		ArUriReader:   web_resource_repository.NewArReaderRepo(httpClient, cfg.Metadata.ArGateway, cfg.Metadata.Timeout, cfg.Metadata.Headers),
	})

	metadataUsecase := metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
		WebResource: webResource,
		Cache:       metadataCache,
		Retries:     cfg.Metadata.Retries,
	})

	// init contracts
	marketplaceContract := contract.NewMarketplace(chainClient, cfg.MarketplaceAddress())
	ledgerRepo := listing_repository.NewLedgerRepo(&listing_repository.LedgerRepoCfg{
		Marketplace: marketplaceContract,
		Asset:       contract.NewErc721(chainClient),
		AssetFilter: cfg.AssetAddress(),
		Timeout:     cfg.Network.Timeout,
		Concurrency: cfg.Refresh.Concurrency,
	})

	// init wallet
	walletConnector, err := wallet_repository.Lookup(cfg.Wallet.Provider,
		wallet_repository.NewKeystoreConnector(&wallet_repository.KeystoreConnectorCfg{
			Dir:         cfg.Wallet.KeystoreDir,
			Account:     cfg.WalletAccount(),
			Prompter:    prompt.Stdin,
			ConfirmSign: cfg.Wallet.ConfirmSign,
			Decimals:    cfg.Network.Decimals,
		}),
		wallet_repository.NewExternalConnector(cfg.Wallet.ExternalEndpoint, cfg.WalletAccount()),
	)
	if err != nil {
		context.WithField("err", err).Panic("wallet_repository.Lookup failed")
	}

	purchaseUsecase := purchase_usecase.NewPurchaseUseCase(&purchase_usecase.PurchaseUseCaseCfg{
		Chain:          chainClient,
		Marketplace:    marketplaceContract,
		Wallet:         walletConnector,
		SaleIdentifier: cfg.SaleIdentifier(),
		Decimals:       cfg.Network.Decimals,
		GasLimit:       cfg.Purchase.GasLimit,
		Confirmations:  cfg.Purchase.Confirmations,
		Timeout:        cfg.Purchase.Timeout,
		PollInterval:   cfg.Purchase.PollInterval,
		Metrics:        metrics.New("purchase"),
	})

	marketplaceUsecase := listing_usecase.NewMarketplaceUseCase(&listing_usecase.MarketplaceUseCaseCfg{
		Ledger:         ledgerRepo,
		Metadata:       metadataUsecase,
		Assembler:      listing_usecase.NewAssembler(cfg.Network.Decimals),
		Purchaser:      purchaseUsecase,
		Policy:         cfg.MetadataPolicy(),
		Concurrency:    cfg.Refresh.Concurrency,
		RefreshTimeout: cfg.Refresh.Timeout,
		Currency:       cfg.Network.CurrencySymbol,
		Metrics:        metrics.New("marketplace"),
	})

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware(metrics.New("http"))
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	listing_delivery.New(e, marketplaceUsecase)
	hc_delivery.New(e, hc_usecase.New(hc_repo.New(chainClient.Backend(), redisPool), marketplaceUsecase))

	if cfg.Refresh.OnStart {
		c := ctx.WithValue(context, "trigger", "start")
		goroutine.RecoverableGo(func() {
			if _, err := marketplaceUsecase.RefreshListings(c); err != nil {
				c.WithField("err", err).Error("marketplaceUsecase.RefreshListings failed")
			}
		}, goroutine.WithName("initialRefresh"), goroutine.WithLogger(c.Logger))
	}

	// Start server
	go func() {
		if err := e.Start(cfg.Server.Address); err != nil && err != http.ErrServerClosed {
			context.WithField("err", err).Error("e.Start failed")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
