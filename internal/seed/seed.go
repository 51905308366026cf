// Package seed obtains the initial catalog data: the books.json dataset and
// the cover images it references. The server runs it at startup so a fresh
// install comes up with a populated store; the fetch subcommand runs it
// standalone.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"bookapp/internal/metrics"
	"bookapp/internal/store"
)

// maxConcurrentImages bounds how many cover downloads run at once.
const maxConcurrentImages = 10

// Options configures a Fetcher. All fields are required.
type Options struct {
	BooksURL     string // dataset URL
	ImageBaseURL string // base URL the records' imageLink paths resolve against
	BooksFile    string // destination catalog file
	ImagesDir    string // destination directory for covers
	MetadataFile string // bootstrap state file
}

// Fetcher downloads seed data and tracks what has been obtained.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New creates a Fetcher with a bounded-timeout HTTP client.
func New(opts Options) *Fetcher {
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// metadata mirrors the bootstrap state file.
type metadata struct {
	BooksJSONDownloaded bool   `json:"books_json_downloaded"`
	ImagesDownloaded    bool   `json:"images_downloaded"`
	LastChecked         string `json:"last_checked"`
}

// Ensure makes sure seed data is present. A missing catalog that cannot be
// downloaded is a hard error: the caller must not start with a silently
// empty store. Missing images are fetched best-effort and never fail Ensure.
func (f *Fetcher) Ensure(ctx context.Context) error {
	if _, err := os.Stat(f.opts.BooksFile); os.IsNotExist(err) {
		log.Printf("seed: %s not found, downloading", f.opts.BooksFile)
		if err := f.DownloadBooks(ctx); err != nil {
			return fmt.Errorf("seed catalog unobtainable: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", f.opts.BooksFile, err)
	}

	if !f.imagesPresent() {
		if err := f.DownloadImages(ctx); err != nil {
			log.Printf("seed: image download incomplete: %v", err)
		}
	}
	return nil
}

// DownloadBooks fetches the dataset, verifies it parses as a book list, and
// writes it atomically to the catalog file.
func (f *Fetcher) DownloadBooks(ctx context.Context) error {
	body, err := f.get(ctx, f.opts.BooksURL)
	if err != nil {
		metrics.SeedDownloadsTotal.WithLabelValues("error").Inc()
		return err
	}

	// Reject a payload that is not a valid catalog before it can shadow the
	// real store format.
	var books []store.Book
	if err := json.Unmarshal(body, &books); err != nil {
		metrics.SeedDownloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("seed dataset is not a book list: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.opts.BooksFile), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.opts.BooksFile), "books.json.tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.opts.BooksFile); err != nil {
		return err
	}

	metrics.SeedDownloadsTotal.WithLabelValues("success").Inc()
	f.updateMetadata(func(m *metadata) { m.BooksJSONDownloaded = true })
	log.Printf("seed: downloaded %d books to %s", len(books), f.opts.BooksFile)
	return nil
}

// DownloadImages fetches every cover referenced by the catalog into the
// images directory, at most maxConcurrentImages at a time. Covers already on
// disk are skipped; individual failures are logged and counted but do not
// abort the rest.
func (f *Fetcher) DownloadImages(ctx context.Context) error {
	data, err := os.ReadFile(f.opts.BooksFile)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var books []store.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	if err := os.MkdirAll(f.opts.ImagesDir, 0o755); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImages)
	for _, b := range books {
		if b.ImageLink == "" {
			continue
		}
		link := b.ImageLink
		g.Go(func() error {
			if err := f.downloadImage(ctx, link); err != nil {
				metrics.SeedDownloadsTotal.WithLabelValues("error").Inc()
				log.Printf("seed: image %s: %v", link, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.updateMetadata(func(m *metadata) { m.ImagesDownloaded = true })
	return nil
}

// downloadImage fetches one cover. The imageLink path in the dataset may
// carry a directory prefix (images/foo.jpg); only the file name is kept
// locally.
func (f *Fetcher) downloadImage(ctx context.Context, link string) error {
	dest := filepath.Join(f.opts.ImagesDir, filepath.Base(link))
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	body, err := f.get(ctx, f.opts.ImageBaseURL+"/"+link)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return err
	}
	metrics.SeedDownloadsTotal.WithLabelValues("success").Inc()
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// imagesPresent reports whether the images directory exists and is non-empty.
func (f *Fetcher) imagesPresent() bool {
	entries, err := os.ReadDir(f.opts.ImagesDir)
	return err == nil && len(entries) > 0
}

// updateMetadata applies fn to the bootstrap state file. State tracking is
// best effort; a failure here never blocks the data it describes.
func (f *Fetcher) updateMetadata(fn func(*metadata)) {
	var m metadata
	if data, err := os.ReadFile(f.opts.MetadataFile); err == nil {
		if err := json.Unmarshal(data, &m); err != nil {
			m = metadata{}
		}
	}
	fn(&m)
	m.LastChecked = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return
	}
	if err := os.WriteFile(f.opts.MetadataFile, data, 0o644); err != nil {
		log.Printf("seed: write metadata: %v", err)
	}
}
