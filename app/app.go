package app

import (
	"github.com/tendermint/tendermint/libs/log"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/x"
	"github.com/swapvault/swapd/x/ledger"
	"github.com/swapvault/swapd/x/rent"
	"github.com/swapvault/swapd/x/sigs"
	"github.com/swapvault/swapd/x/swap"
	"github.com/swapvault/swapd/x/utils"
)

// Authenticator returns the authentication of transaction signers. This is
// the only authority a message handler accepts.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// LedgerControl returns the ledger. Besides signers, it accepts the
// authority the swap custodian and the rent reserve grant to themselves
// while they move funds they hold.
func LedgerControl() ledger.BaseController {
	return ledger.NewController(x.ChainAuth(
		Authenticator(),
		swap.Authenticate(),
		rent.Authenticate(),
	))
}

// Chain returns the decorators every transaction passes through.
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, a failing message still increments the
		// signer sequence
		utils.NewSavepoint().OnDeliver(),
	)
}

// Routes registers the handlers of every extension.
func Routes(programID swapd.Address) *Router {
	auth := Authenticator()
	l := LedgerControl()
	r := NewRouter()
	ledger.RegisterRoutes(r, auth, l)
	sigs.RegisterRoutes(r, auth)
	swap.RegisterRoutes(r, auth, swap.NewController(programID, auth, l, rent.NewController(l)))
	return r
}

// QueryRouter exposes the buckets of every extension.
func QueryRouter() swapd.QueryRouter {
	r := swapd.NewQueryRouter()
	r.RegisterAll(
		ledger.RegisterQuery,
		rent.RegisterQuery,
		sigs.RegisterQuery,
		swap.RegisterQuery,
	)
	return r
}

// Initializers reads the genesis state of every extension.
func Initializers() swapd.Initializer {
	return swapd.ChainInitializers(
		ledger.Initializer{},
		rent.Initializer{},
		swap.Initializer{},
	)
}

// Stack wires up the router with the decorator chain.
func Stack(programID swapd.Address) swapd.Handler {
	return Chain().WithHandler(Routes(programID))
}

// Config of an application.
type Config struct {
	// Genesis is required if the store was never initialized and ignored
	// otherwise.
	Genesis   *Genesis
	Publisher Publisher
	Metrics   *Metrics
	Logger    log.Logger
}

// New returns the executor of the swap application over db. The store is
// initialized from the genesis on the first start.
func New(db swapd.CommitKVStore, conf Config) (*Executor, error) {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	chainID, err := ChainID(db)
	if err != nil {
		return nil, err
	}
	if chainID == "" {
		if conf.Genesis == nil {
			return nil, errors.Wrap(errors.ErrState, "store not initialized and no genesis given")
		}
		if err := InitChain(db, conf.Genesis, Initializers()); err != nil {
			return nil, err
		}
		logger.Info("genesis loaded", "chain_id", conf.Genesis.ChainID)
	}

	swapConf, err := swap.LoadConfig(db)
	if err != nil {
		return nil, errors.Wrap(err, "swap configuration")
	}
	return NewExecutor(ExecutorConfig{
		Store:     db,
		Decoder:   TxDecoder,
		Handler:   Stack(swapConf.ProgramID),
		Queries:   QueryRouter(),
		Publisher: conf.Publisher,
		Metrics:   conf.Metrics,
		Logger:    logger,
	})
}
