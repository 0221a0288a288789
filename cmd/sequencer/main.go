// Command sequencer starts a single-node rollup sequencer: storage,
// mempool, consensus engine, metrics, RPC, and UDP gossip.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latticefold/sequencer/config"
	"github.com/latticefold/sequencer/consensus"
	"github.com/latticefold/sequencer/crypto/certgen"
	"github.com/latticefold/sequencer/events"
	"github.com/latticefold/sequencer/gossip"
	"github.com/latticefold/sequencer/mempool"
	"github.com/latticefold/sequencer/metrics"
	"github.com/latticefold/sequencer/rpc"
	"github.com/latticefold/sequencer/storage"
	"github.com/latticefold/sequencer/types"
	"github.com/latticefold/sequencer/wallet"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	keyPath := flag.String("key", "validator.key", "path to keystore file")
	genKey := flag.Bool("genkey", false, "generate a new validator key and exit")
	genCerts := flag.String("gencerts", "", "generate a self-signed RPC TLS cert into the given directory and exit")
	volatile := flag.Bool("volatile", false, "use the in-memory storage backend instead of the durable one")
	stepInterval := flag.Duration("step-interval", 500*time.Millisecond, "interval between consensus Step calls")
	flag.Parse()

	password := os.Getenv("SEQUENCER_PASSWORD")
	if password == "" {
		log.Println("WARNING: SEQUENCER_PASSWORD not set — keystore will use an empty password")
	}

	if *genKey {
		w, err := wallet.Generate()
		if err != nil {
			log.Fatal(err)
		}
		if err := wallet.SaveKey(*keyPath, password, w.PrivKey()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Generated key. Validator ID: %s\n", w.PubKey())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	if *genCerts != "" {
		if err := certgen.GenerateSelfSigned(*genCerts, "sequencer", nil); err != nil {
			log.Fatalf("gencerts: %v", err)
		}
		fmt.Printf("Certificate generated in %s\n", *genCerts)
		return
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	priv, err := wallet.LoadKey(*keyPath, password)
	if err != nil {
		log.Fatalf("load key: %v", err)
	}
	w := wallet.New(priv)
	if cfg.ValidatorID == "" {
		cfg.ValidatorID = w.PubKey()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	rec := metrics.New()

	var store storage.Store
	if *volatile {
		store = storage.NewMemory(rec)
		log.Println("using volatile (in-memory) storage backend")
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			log.Fatalf("mkdir data dir: %v", err)
		}
		store, err = storage.NewDurable(cfg.DataDir+"/chain", rec)
		if err != nil {
			log.Fatalf("open storage: %v", err)
		}
	}
	defer store.Close()

	bus := events.NewBus()
	pool := mempool.New(cfg.MempoolMaxTx, rec)

	engine, err := consensus.New(pool, store, store, store, consensus.SystemClock{}, bus, rec, cfg.ValidatorBytes(), cfg.MaxBlockTxs)
	if err != nil {
		log.Fatalf("consensus init: %v", err)
	}

	gossipNode, err := gossip.New(cfg.GossipAddr, cfg.Peers)
	if err != nil {
		log.Fatalf("gossip init: %v", err)
	}
	gossipNode.OnTx(func(tx types.Transaction) {
		if _, err := engine.SubmitTx(tx); err != nil {
			log.Printf("[gossip] submit_tx for gossiped transaction: %v", err)
		}
	})
	gossipNode.Start()
	defer gossipNode.Stop()
	log.Printf("gossip listening on %s", gossipNode.Addr())

	tlsCfg, err := config.LoadTLSConfig(cfg.TLS)
	if err != nil {
		log.Fatalf("tls: %v", err)
	}

	handler := rpc.NewHandler(engine, gossipNode)
	rpcServer := rpc.NewServer(cfg.RPCAddr, handler, rec, tlsCfg)
	if err := rpcServer.Start(); err != nil {
		log.Fatalf("rpc start: %v", err)
	}
	defer rpcServer.Stop()
	log.Printf("rpc listening on %s", cfg.RPCAddr)

	done := make(chan struct{})
	stepDone := make(chan struct{})
	go runSteps(engine, *stepInterval, done, stepDone)
	log.Printf("consensus running (validator: %s, resuming at height %d)", cfg.ValidatorID, engine.LastHeight())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutting down...")

	close(done)
	<-stepDone
	log.Println("shutdown complete.")
}

// runSteps drives the consensus engine at a fixed cadence until done is
// closed, then closes finished. The proposer itself never evicts committed
// transactions from the mempool (consensus.Engine.Step leaves that to an
// external caller); this step driver is that external caller, removing each
// Step's batch immediately after it commits.
func runSteps(engine *consensus.Engine, interval time.Duration, done <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ev, err := engine.Step()
			if err != nil {
				if err != consensus.ErrNoBatch {
					log.Printf("[consensus] step error: %v", err)
				}
				continue
			}
			engine.RemoveCommitted(ev.Block.Txs)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("config file not found at %s, using defaults", path)
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}
