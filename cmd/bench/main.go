// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/memolru/cache"
	pmet "github.com/IvanBrykalov/memolru/metrics/prom"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		unlocked = flag.Bool("unlocked", false, "use the single-caller cache (forces workers=1)")

		workers   = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration  = flag.Duration("duration", 10*time.Second, "benchmark duration")
		removePct = flag.Int("removes", 5, "remove percentage [0..100]; the rest are Gets")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")
		cost    = flag.Duration("cost", 0, "simulated backend latency per produced value")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "memolru", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	var produced atomic.Uint64
	costVal := *cost
	opt := cache.Options[string, string]{
		MaxCount: *capacity,
		Create: func(_ context.Context, key string) (string, error) {
			produced.Add(1)
			if costVal > 0 {
				time.Sleep(costVal)
			}
			return "v:" + key, nil
		},
		Metrics: metrics,
	}

	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	var c cache.Cache[string, string]
	if *unlocked {
		// The single-caller form tolerates no concurrency.
		workersN = 1
		c = cache.NewUnlocked(opt)
	} else {
		c = cache.New(opt)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	ctx := context.Background()
	for i := 0; i < pl; i++ {
		if _, err := c.Get(ctx, "k:"+strconv.Itoa(i)); err != nil {
			log.Fatalf("preload: %v", err)
		}
	}
	c.ResetStats() // measure the workload, not the preload

	// ---- Snapshot flags for goroutines ----
	removePctVal := *removePct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV

	// ---- Load generation ----
	var gets, removes, total uint64
	runCtx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-runCtx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < removePctVal {
					atomic.AddUint64(&removes, 1)
					c.Remove(keyByZipf())
				} else {
					atomic.AddUint64(&gets, 1)
					if _, err := c.Get(ctx, keyByZipf()); err != nil {
						log.Fatalf("Get: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	getsN := atomic.LoadUint64(&gets)
	removesN := atomic.LoadUint64(&removes)
	s := c.Stats()

	fmt.Printf("cap=%d unlocked=%v workers=%d keys=%d dur=%v seed=%d\n",
		*capacity, *unlocked, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  gets=%d  removes=%d  produced=%d\n",
		ops, float64(ops)/elapsed.Seconds(), getsN, removesN, produced.Load())
	fmt.Printf("lookups=%d  hits=%d  misses=%d  hit-rate=%.2f%%\n",
		s.TotalHits, s.CacheHits, s.Misses(), s.HitRate()*100)
	fmt.Printf("Len()=%d\n", c.Len())
}
