// Command simulator fires randomized toll crossings at a running server and
// reports the distribution of decision statuses. Useful for smoke-testing a
// deployment against the seeded dataset.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tollgate/internal/seed"
)

type crossing struct {
	PlazaID      string `json:"plaza_id"`
	LicensePlate string `json:"license_plate,omitempty"`
	TagID        string `json:"tag_id,omitempty"`
}

type decision struct {
	Status string `json:"status"`
}

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "server base URL")
		count    = flag.Int("n", 100, "number of crossings to simulate")
		workers  = flag.Int("workers", 8, "concurrent lanes")
		seedFlag = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
	)
	flag.Parse()

	if err := run(*baseURL, *count, *workers, *seedFlag); err != nil {
		fmt.Fprintln(os.Stderr, "simulator failed:", err)
		os.Exit(1)
	}
}

func run(baseURL string, count, workers int, prngSeed int64) error {
	rng := rand.New(rand.NewSource(prngSeed))
	crossings := make([]crossing, count)
	for i := range crossings {
		crossings[i] = randomCrossing(rng)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	var mu sync.Mutex
	statuses := map[string]int{}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for _, c := range crossings {
		g.Go(func() error {
			status, err := process(ctx, client, baseURL, c)
			if err != nil {
				return err
			}
			mu.Lock()
			statuses[status]++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	keys := make([]string, 0, len(statuses))
	for k := range statuses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("simulated %d crossings:\n", count)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, statuses[k])
	}
	return nil
}

// randomCrossing picks mostly well-formed crossings from the seeded fleet,
// with a slice of malformed ones to exercise the failure statuses.
func randomCrossing(rng *rand.Rand) crossing {
	plaza := seed.Plazas[rng.Intn(len(seed.Plazas))].ID
	roll := rng.Intn(100)
	switch {
	case roll < 5:
		// Unknown plaza.
		return crossing{PlazaID: "PLZ-NOPE", TagID: randomTag(rng)}
	case roll < 10:
		// Unknown tag.
		return crossing{PlazaID: plaza, TagID: fmt.Sprintf("TAG-GHOST-%03d", rng.Intn(1000))}
	case roll < 15:
		// Unregistered plate, no tag.
		return crossing{PlazaID: plaza, LicensePlate: fmt.Sprintf("XX%02dZZ%04d", rng.Intn(100), rng.Intn(10000))}
	case roll < 20:
		// No identifiers at all.
		return crossing{PlazaID: plaza}
	case roll < 60:
		return crossing{PlazaID: plaza, TagID: randomTag(rng)}
	default:
		v := seed.Vehicles[rng.Intn(len(seed.Vehicles))]
		return crossing{PlazaID: plaza, LicensePlate: v.Plate, TagID: v.TagID}
	}
}

func randomTag(rng *rand.Rand) string {
	return seed.Vehicles[rng.Intn(len(seed.Vehicles))].TagID
}

func process(ctx context.Context, client *http.Client, baseURL string, c crossing) (string, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/toll/process", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("http_%d", resp.StatusCode), nil
	}
	var d decision
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return "", fmt.Errorf("decode decision: %w", err)
	}
	return d.Status, nil
}
