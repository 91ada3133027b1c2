package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goOTP"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		identifiers = flag.Int("identifiers", 50000, "number of identifiers to issue codes for")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase")
		contenders  = flag.Int("contenders", 512, "goroutines racing wrong codes against one identifier")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "os", "session key prefix")
	)
	flag.Parse()

	if *identifiers <= 0 || *concurrency <= 0 || *ops <= 0 || *contenders <= 0 {
		fmt.Fprintln(os.Stderr, "identifiers, concurrency, ops, and contenders must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goOTP.DefaultConfig()
	cfg.Session.RedisPrefix = *prefix
	cfg.Metrics.Enabled = true

	engine, err := goOTP.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ids := make([]string, *identifiers)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d@example.com", i)
	}

	generateStats := runPhase(*ops, *concurrency, func(r *rand.Rand, _ int) error {
		_, err := engine.Generate(ctx, ids[r.IntN(len(ids))])
		return err
	})

	verifyStats := runPhase(*ops, *concurrency, func(_ *rand.Rand, i int) error {
		id := ids[i%len(ids)]
		code, err := engine.Generate(ctx, id)
		if err != nil {
			return err
		}
		res, err := engine.Validate(ctx, id, code)
		if !res.OK {
			return err
		}
		return nil
	})

	sessionStats := runPhase(*ops/10+1, *concurrency, func(r *rand.Rand, _ int) error {
		s, err := engine.IssueSession(ctx, ids[r.IntN(len(ids))])
		if err != nil {
			return err
		}
		if _, err := engine.LookupSession(ctx, s.ID); err != nil {
			return err
		}
		_, err = engine.EndSession(ctx, s)
		return err
	})

	mismatches, exceeded, err := runContention(ctx, engine, *contenders)

	fmt.Println("---- results ----")
	printStats("generate", generateStats)
	printStats("verify", verifyStats)
	printStats("session", sessionStats)
	fmt.Printf("contention: contenders=%d mismatches=%d exceeded=%d budget=%d\n",
		*contenders, mismatches, exceeded, cfg.OTP.MaxAttempts)

	if err != nil {
		fmt.Fprintf(os.Stderr, "contention check failed: %v\n", err)
		os.Exit(1)
	}
}

// runContention fires wrong codes at one identifier from many goroutines at
// once. Exactly MaxAttempts of them may be compared.
func runContention(ctx context.Context, engine *goOTP.Engine, contenders int) (int64, int64, error) {
	const id = "contended@example.com"
	code, err := engine.Generate(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	var (
		wg         sync.WaitGroup
		mismatches atomic.Int64
		exceeded   atomic.Int64
		start      = make(chan struct{})
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, _ := engine.Validate(ctx, id, wrong)
			switch res.Kind {
			case goOTP.KindMismatch:
				mismatches.Add(1)
			case goOTP.KindAttemptsExceeded:
				exceeded.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	budget := int64(engine.Config().OTP.MaxAttempts)
	if contenders < int(budget) {
		budget = int64(contenders)
	}
	if mismatches.Load() != budget {
		return mismatches.Load(), exceeded.Load(), errors.New("attempt budget was not enforced")
	}
	return mismatches.Load(), exceeded.Load(), nil
}

func runPhase(ops, concurrency int, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
