package showcase

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultRawURL serves raw repository files.
	DefaultRawURL = "https://raw.githubusercontent.com"
	// DefaultCoverFile is looked up at the root of the default branch.
	DefaultCoverFile = "cover.jpg"

	// maxCoverHeader bounds how much of a response is read to recognise an
	// image.
	maxCoverHeader = 1 << 20
)

// Target is the document a probe reports into.
type Target interface {
	Show(id string) bool
	SetImageSource(id, src string) bool
}

// ProberConfig configures cover probing.
type ProberConfig struct {
	RawURL      string
	CoverFile   string
	Concurrency int
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Prober checks repositories for a cover image.
type Prober struct {
	config     ProberConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProber creates a Prober. Concurrency below one means one probe at a time.
func NewProber(config ProberConfig) *Prober {
	if config.RawURL == "" {
		config.RawURL = DefaultRawURL
	}
	if config.CoverFile == "" {
		config.CoverFile = DefaultCoverFile
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	hc := config.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{config: config, httpClient: hc, logger: logger}
}

// CoverURL returns where the cover for a repository would live.
func (p *Prober) CoverURL(fullName, branch string) string {
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(p.config.RawURL, "/"), fullName, branch, p.config.CoverFile)
}

// Probes tracks a batch of probes started together.
type Probes struct {
	wg    sync.WaitGroup
	done  chan struct{}
	shown atomic.Int64
}

// Done is closed once every probe in the batch has finished.
func (ps *Probes) Done() <-chan struct{} { return ps.done }

// Wait blocks until every probe finished or ctx is done.
func (ps *Probes) Wait(ctx context.Context) error {
	select {
	case <-ps.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shown returns how many covers were found so far.
func (ps *Probes) Shown() int { return int(ps.shown.Load()) }

// Start launches one detached probe per entry and returns immediately. A
// probe that finds an image shows its container and points the <img> at
// the cover. Any failure leaves the container hidden.
func (p *Prober) Start(ctx context.Context, target Target, probes []Probe) *Probes {
	ps := &Probes{done: make(chan struct{})}
	sem := make(chan struct{}, p.config.Concurrency)

	for _, probe := range probes {
		ps.wg.Add(1)
		go func(pr Probe) {
			defer ps.wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			src := p.CoverURL(pr.FullName, pr.Branch)
			if err := p.check(ctx, src); err != nil {
				p.logger.Debug("no cover image", zap.String("repo", pr.FullName), zap.Error(err))
				return
			}
			if target.SetImageSource(pr.ContainerID, src) && target.Show(pr.ContainerID) {
				ps.shown.Add(1)
			}
		}(probe)
	}

	go func() {
		ps.wg.Wait()
		close(ps.done)
	}()
	return ps
}

// check succeeds when src answers 2xx with a decodable image.
func (p *Prober) check(ctx context.Context, src string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("cover status %d", resp.StatusCode)
	}
	if _, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxCoverHeader)); err != nil {
		return fmt.Errorf("decoding cover: %w", err)
	}
	return nil
}
