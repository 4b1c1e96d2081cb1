// Package loader runs one page load: it works out where the site root is
// from the page's own script tags, fetches the documents the page needs and
// writes the populated views into the page. Every failure degrades to the
// page's static fallback markup.
package loader

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/dom"
	"github.com/ziadkadry99/folio/internal/model"
	"github.com/ziadkadry99/folio/internal/page"
	"github.com/ziadkadry99/folio/internal/populate"
	"github.com/ziadkadry99/folio/internal/showcase"
)

// Config controls what a Loader fetches.
type Config struct {
	ProfilePath  string
	BlogPath     string
	OwnerName    string
	LoaderScript string
	Showcase     showcase.Options
	// Now is the clock used for years of experience. Defaults to time.Now.
	Now func() time.Time
}

// Loader populates pages. One Loader serves any number of page loads; no
// state is shared between runs.
type Loader struct {
	fetcher    *content.Fetcher
	aggregator *showcase.Aggregator
	prober     *showcase.Prober
	config     Config
	logger     *zap.Logger
}

// New creates a Loader. A nil aggregator leaves the projects page with its
// static markup, and a nil prober skips cover probing.
func New(fetcher *content.Fetcher, aggregator *showcase.Aggregator, prober *showcase.Prober, config Config, logger *zap.Logger) *Loader {
	if config.ProfilePath == "" {
		config.ProfilePath = "data/profile.json"
	}
	if config.BlogPath == "" {
		config.BlogPath = "data/blog.json"
	}
	if config.LoaderScript == "" {
		config.LoaderScript = content.DefaultLoaderScript
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher:    fetcher,
		aggregator: aggregator,
		prober:     prober,
		config:     config,
		logger:     logger,
	}
}

// Result reports what happened during one run. Errors are informational:
// the document already reflects the fallback behaviour.
type Result struct {
	RunID    string
	Context  page.Context
	BasePath string

	ProfileErr  error
	BlogErr     error
	ProjectsErr error

	// Probes is non-nil when cover probes were started. They keep writing
	// into the document after Run returns.
	Probes *showcase.Probes
}

// Run populates doc, which was loaded from pagePath (relative to the site
// root). Profile, blog and showcase work run concurrently and fail
// independently.
func (l *Loader) Run(ctx context.Context, doc *dom.Document, pagePath string, pc page.Context) *Result {
	res := &Result{RunID: uuid.NewString(), Context: pc}
	log := l.logger.With(
		zap.String("run_id", res.RunID),
		zap.String("page", pagePath),
		zap.Stringer("kind", pc.Kind),
	)

	res.BasePath = content.DetectBasePath(doc.ScriptSources(), l.config.LoaderScript)
	fetcher := l.fetcherFor(pagePath, res.BasePath, log)

	start := time.Now()
	var wg sync.WaitGroup

	// profileDone is closed once profileName is final.
	profileDone := make(chan struct{})
	var profileName string
	owner := func() string {
		<-profileDone
		if profileName != "" {
			return profileName
		}
		return l.config.OwnerName
	}

	if pc.NeedsProfile() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(profileDone)
			var p model.Profile
			p, res.ProfileErr = l.loadProfile(ctx, fetcher, doc, pc)
			profileName = p.Name
			if res.ProfileErr != nil {
				log.Warn("could not load profile, using HTML fallback",
					zap.String("resource", l.config.ProfilePath), zap.Error(res.ProfileErr))
			}
		}()
	} else {
		close(profileDone)
	}

	if pc.NeedsBlog() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.BlogErr = l.loadBlog(ctx, fetcher, doc, pc, res.BasePath, owner)
			if res.BlogErr != nil {
				log.Warn("could not load blog, using HTML fallback",
					zap.String("resource", l.config.BlogPath), zap.Error(res.BlogErr))
			}
		}()
	}

	if pc.NeedsProjects() && l.aggregator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.Probes, res.ProjectsErr = l.loadProjects(ctx, doc)
			if res.ProjectsErr != nil {
				log.Warn("could not load GitHub repos", zap.Error(res.ProjectsErr))
			}
		}()
	}

	wg.Wait()
	log.Debug("page populated", zap.Duration("elapsed", time.Since(start)))
	return res
}

// fetcherFor returns the fetcher for a page. A base path that is a URL, from
// a loader script served off another host, replaces the site root.
func (l *Loader) fetcherFor(pagePath, basePath string, log *zap.Logger) *content.Fetcher {
	if content.IsRemote(basePath) {
		f, err := l.fetcher.Rebase(basePath)
		if err == nil {
			return f
		}
		log.Warn("ignoring unusable loader script base", zap.String("base", basePath), zap.Error(err))
	}
	pageDir := path.Dir(strings.TrimPrefix(pagePath, "/"))
	return l.fetcher.Within(pageDir).Within(basePath)
}

func (l *Loader) loadProfile(ctx context.Context, f *content.Fetcher, doc *dom.Document, pc page.Context) (model.Profile, error) {
	var p model.Profile
	if err := f.FetchJSON(ctx, l.config.ProfilePath, &p); err != nil {
		return p, err
	}

	var v populate.View
	switch pc.Kind {
	case page.KindLanding:
		v = populate.Landing(p, l.config.Now())
	case page.KindAbout:
		v = populate.About(p)
	case page.KindCredentials:
		v = populate.Credentials(p)
	case page.KindContact:
		v = populate.Contact(p)
	}
	return p, Apply(doc, v)
}

// loadBlog populates a blog page. owner blocks until the profile load, if
// any, has finished.
func (l *Loader) loadBlog(ctx context.Context, f *content.Fetcher, doc *dom.Document, pc page.Context, basePath string, owner func() string) error {
	var posts []model.Post
	if err := f.FetchJSON(ctx, l.config.BlogPath, &posts); err != nil {
		return err
	}

	if pc.Kind == page.KindBlogList {
		return Apply(doc, populate.BlogList(posts, basePath))
	}
	v, err := populate.BlogDetail(posts, pc, owner(), basePath)
	if err != nil {
		return err
	}
	return Apply(doc, v)
}

// ProjectsListID is the element the showcase renders into.
const ProjectsListID = "projects-list"

func (l *Loader) loadProjects(ctx context.Context, doc *dom.Document) (*showcase.Probes, error) {
	repos, err := l.aggregator.Collect(ctx, l.config.Showcase)
	if err != nil {
		if _, herr := doc.SetHTML(ProjectsListID, showcase.ErrorMessage); herr != nil {
			l.logger.Error("writing projects error message", zap.Error(herr))
		}
		return nil, err
	}

	markup, probes := showcase.Render(showcase.Cards(repos))
	if _, err := doc.SetHTML(ProjectsListID, markup); err != nil {
		return nil, err
	}
	if l.prober == nil || len(probes) == 0 {
		return nil, nil
	}
	return l.prober.Start(ctx, doc, probes), nil
}

// Apply writes a view into doc. Fragments whose element is missing are
// skipped.
func Apply(doc *dom.Document, v populate.View) error {
	if v.Title != "" {
		doc.SetTitle(v.Title)
	}
	for _, f := range v.Fragments {
		if !f.HTML {
			doc.SetText(f.ID, f.Content)
			continue
		}
		if _, err := doc.SetHTML(f.ID, f.Content); err != nil {
			return err
		}
	}
	return nil
}
