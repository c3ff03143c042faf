package evidence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/core"
)

const (
	DefaultStageTimeout      = 15 * time.Second
	DefaultGenerationTimeout = 60 * time.Second
	DefaultTopK              = 5
)

// Placeholders substituted for skipped or failed stages.
var (
	PlaceholderDocuments = core.WarningMarker + " Document retrieval unavailable."
	PlaceholderNews      = core.WarningMarker + " News unavailable."
	PlaceholderTrends    = core.WarningMarker + " Search trends unavailable."
	PlaceholderNoTicker  = core.WarningMarker + " Search trends skipped: no ticker."
	QuoteNoTicker        = core.Quote{Fields: []core.QuoteField{{Key: "message", Value: "No valid ticker detected for stock data"}}}
)

// Assembler runs the query pipeline.
type Assembler struct {
	src               Sources
	names             NameSource
	generator         ai.Generator
	pool              *ants.Pool
	stageTimeout      time.Duration
	trendsTimeout     time.Duration
	generationTimeout time.Duration
	allowTickerless   bool
	logger            *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler) error

// WithGenerator sets the answer generator used by Answer.
func WithGenerator(g ai.Generator) Option {
	return func(a *Assembler) error {
		a.generator = g
		return nil
	}
}

// WithNameSource enables company-name lookup for logging and news topics.
func WithNameSource(n NameSource) Option {
	return func(a *Assembler) error {
		a.names = n
		return nil
	}
}

// WithStageTimeout bounds each gather stage. Default: 15s.
func WithStageTimeout(d time.Duration) Option {
	return func(a *Assembler) error {
		if d > 0 {
			a.stageTimeout = d
		}
		return nil
	}
}

// WithTrendsTimeout bounds the trends stage, which may wait out provider
// cooldowns and so usually needs longer than the other stages. Default: the
// trend source's Budget when it has one. The stage never gets less than the
// regular stage timeout.
func WithTrendsTimeout(d time.Duration) Option {
	return func(a *Assembler) error {
		if d > 0 {
			a.trendsTimeout = d
		}
		return nil
	}
}

// WithGenerationTimeout bounds the generation call. Default: 60s.
func WithGenerationTimeout(d time.Duration) Option {
	return func(a *Assembler) error {
		if d > 0 {
			a.generationTimeout = d
		}
		return nil
	}
}

// WithAllowTickerless lets queries without a resolvable ticker proceed
// with retrieval and news only. Default: false.
func WithAllowTickerless(allow bool) Option {
	return func(a *Assembler) error {
		a.allowTickerless = allow
		return nil
	}
}

// WithPoolSize sets the worker pool size for gather stages. Sizes below 1
// keep the default of 4 * runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(a *Assembler) error {
		if size < 1 {
			return nil
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if a.pool != nil {
			a.pool.Release()
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssembler creates an assembler over src.
func NewAssembler(src Sources, opts ...Option) (*Assembler, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(4 * runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	a := &Assembler{
		src:               src,
		pool:              pool,
		stageTimeout:      DefaultStageTimeout,
		generationTimeout: DefaultGenerationTimeout,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.Release()
			return nil, err
		}
	}
	if a.trendsTimeout == 0 {
		if b, ok := src.Trends.(budgeted); ok {
			a.trendsTimeout = b.Budget()
		}
	}
	a.trendsTimeout = max(a.trendsTimeout, a.stageTimeout)
	a.logger = a.logger.With("component", "assembler")
	return a, nil
}

// Release stops the worker pool. The assembler should not be used after.
func (a *Assembler) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Assemble filters and resolves q, gathers evidence and builds the context
// text. It fails only with a *BlockedError or ErrNoTicker.
func (a *Assembler) Assemble(ctx context.Context, q core.Query, topK int) (*core.EvidenceContext, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	// 1. Filter
	filtered := a.src.Filter.Check(q.Text, q.Ticker)
	if !filtered.Allowed {
		return nil, &BlockedError{Reason: filtered.Reason}
	}

	ec := &core.EvidenceContext{Query: q, Filtered: filtered.Text}

	// 2. Resolve
	var candidate string
	ec.Ticker, ec.Country, candidate = a.resolve(ctx, q, filtered, ec)
	if ec.Ticker == "" && !a.allowTickerless {
		a.logger.Info("no ticker determined", "query", q.Text)
		return nil, ErrNoTicker
	}

	a.logger.Info("gathering evidence", "filtered", filtered.Text, "ticker", ec.Ticker, "country", ec.Country)

	// 3. Gather
	a.gather(ctx, ec, topK, candidate)

	// 4. Assemble
	ec.Text = BuildContext(ec.Documents, ec.News, ec.Trends, ec.Quote, ec.Country)
	return ec, nil
}

// resolve applies ticker precedence: the filter's ticker (explicit, or the
// first ticker-shaped token of the query), then the resolver on the
// original text. Country precedence: explicit, then the resolver's country,
// then the ticker's exchange suffix.
func (a *Assembler) resolve(ctx context.Context, q core.Query, f core.FilterResult, ec *core.EvidenceContext) (ticker, country, candidate string) {
	country = strings.TrimSpace(q.Country)
	if f.Token {
		ticker = f.Text
		if country == "" {
			country = core.CountryForSymbol(ticker)
		}
		a.logger.Debug("resolution", "source", "filter", "ticker", ticker, "country", country)
		return ticker, country, ""
	}

	res := a.src.Resolver.Resolve(ctx, q.Text)
	candidate = res.Candidate
	if res.Err != nil {
		ec.Diagnostics = append(ec.Diagnostics, core.Diagnostic{Stage: "resolve", Detail: res.Err.Error()})
	}
	if res.Resolved() {
		ticker = res.Record.Symbol
		if country == "" {
			country = res.Record.Country
		}
		if country == "" {
			country = core.CountryForSymbol(ticker)
		}
	}

	a.logger.Debug("resolution",
		"candidate", res.Candidate, "source", res.Source, "status", res.Status, "ticker", ticker, "country", country)
	return ticker, country, candidate
}

// budgeted trend sources report how long a miss may take.
type budgeted interface {
	Budget() time.Duration
}

type stage struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context)
	fail    func(reason string)
}

func (a *Assembler) gather(ctx context.Context, ec *core.EvidenceContext, topK int, candidate string) {
	var (
		mu    sync.Mutex
		diags []core.Diagnostic
	)
	note := func(stage, detail string) {
		mu.Lock()
		defer mu.Unlock()
		diags = append(diags, core.Diagnostic{Stage: stage, Detail: detail})
	}

	stages := []stage{
		{
			name: "documents",
			run:  func(ctx context.Context) { ec.Documents = a.src.Documents.Fuse(ctx, ec.Filtered, topK) },
			fail: func(string) { ec.Documents = []string{PlaceholderDocuments} },
		},
		{
			name: "news",
			run: func(ctx context.Context) {
				topics := newsTopics(candidate, a.companyName(ctx, ec.Ticker), ec.Ticker)
				ec.News = a.src.News.Fetch(ctx, ec.Filtered, topics...)
			},
			fail: func(string) { ec.News = []string{PlaceholderNews} },
		},
	}
	if ec.Ticker != "" {
		stages = append(stages,
			stage{
				name:    "trends",
				timeout: a.trendsTimeout,
				run:     func(ctx context.Context) { ec.Trends = a.src.Trends.Get(ctx, ec.Ticker) },
				fail:    func(string) { ec.Trends = []string{PlaceholderTrends} },
			},
			stage{
				name: "quote",
				run:  func(ctx context.Context) { ec.Quote = a.src.Quotes.Snapshot(ctx, ec.Ticker) },
				fail: func(reason string) { ec.Quote = core.QuoteError(reason) },
			},
		)
	} else {
		ec.Trends = []string{PlaceholderNoTicker}
		ec.Quote = QuoteNoTicker
	}

	var wg sync.WaitGroup
	for _, s := range stages {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			a.runStage(ctx, s, note)
		}
		if err := a.pool.Submit(task); err != nil {
			a.logger.Warn("worker pool unavailable, running stage inline", "stage", s.name, "err", err)
			task()
		}
	}
	wg.Wait()

	// warning entries are kept out of the context but reported
	for _, n := range ec.News {
		if core.IsWarning(n) {
			note("news", n)
		}
	}
	for _, t := range ec.Trends {
		if core.IsWarning(t) || strings.HasPrefix(t, "Error fetching trends") {
			note("trends", t)
		}
	}
	if v, ok := ec.Quote.Get("error"); ok {
		note("quote", v)
	}
	ec.Diagnostics = append(ec.Diagnostics, diags...)
}

func (a *Assembler) runStage(ctx context.Context, s stage, note func(stage, detail string)) {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = a.stageTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("%s stage failed: %v", s.name, r)
			a.logger.Error("stage panicked", "stage", s.name, "err", r)
			s.fail(reason)
			note(s.name, reason)
		}
	}()

	start := time.Now()
	s.run(sctx)
	if err := sctx.Err(); err != nil {
		a.logger.Warn("stage deadline reached", "stage", s.name, "elapsed", time.Since(start), "err", err)
		note(s.name, fmt.Sprintf("%s stage: %v", s.name, err))
	}
}

// Answer runs the pipeline and generates a response. Terminal pipeline
// failures and generation failures are reported in the answer's fields,
// never as an error.
func (a *Assembler) Answer(ctx context.Context, q core.Query, topK int) *core.Answer {
	ans := &core.Answer{OriginalQuery: q.Text}

	ec, err := a.Assemble(ctx, q, topK)
	if err != nil {
		ans.Error = userMessage(err)
		return ans
	}

	ans.FilteredQuery = ec.Filtered
	ans.Ticker = ec.Ticker
	ans.Country = ec.Country
	ans.Documents = ec.Documents
	ans.News = withoutWarnings(ec.News)
	ans.Trends = ec.Trends
	ans.Quote = ec.Quote
	ans.Diagnostics = ec.Diagnostics
	ans.Response = a.generate(ctx, ec.Text, q.Text)
	return ans
}

func (a *Assembler) generate(ctx context.Context, contextText, query string) string {
	if a.generator == nil {
		return "Error generating response: no generator configured"
	}

	gctx, cancel := context.WithTimeout(ctx, a.generationTimeout)
	defer cancel()

	out, err := a.generator.Generate(gctx, SystemPrompt, UserPrompt(contextText, query))
	if err != nil {
		a.logger.Error("generation failed", "stage", "generate", "err", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	return strings.Join(strings.Fields(out), " ")
}

// companyName looks up the listed name of ticker for news matching. It
// returns "" when there is no ticker or no name source.
func (a *Assembler) companyName(ctx context.Context, ticker string) string {
	if ticker == "" || a.names == nil {
		return ""
	}
	name := a.names.CompanyName(ctx, ticker)
	a.logger.Debug("company name", "ticker", ticker, "company", name)
	return name
}

func userMessage(err error) string {
	var blocked *BlockedError
	switch {
	case errors.As(err, &blocked):
		return "Query blocked: " + blocked.Reason
	case errors.Is(err, ErrNoTicker):
		return "No valid company ticker could be determined from the query."
	default:
		return err.Error()
	}
}

func newsTopics(candidate, company, ticker string) []string {
	var topics []string
	if candidate != "" {
		topics = append(topics, candidate)
	}
	if name := trimCorporateSuffix(company); name != "" {
		topics = append(topics, name)
	}
	if ticker != "" {
		root, _, _ := strings.Cut(ticker, ".")
		topics = append(topics, root)
	}
	return topics
}

var corporateSuffixes = []string{
	" corporation", " corp.", " corp", " incorporated", " inc.", " inc", " limited", " ltd.", " ltd",
	" plc", " co.", " company", " holdings", " group", ",",
}

// trimCorporateSuffix turns "NVIDIA Corporation" into "NVIDIA" so headlines
// that use the short name still match.
func trimCorporateSuffix(name string) string {
	name = strings.TrimSpace(name)
	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(name)
		for _, s := range corporateSuffixes {
			if strings.HasSuffix(lower, s) && len(name) > len(s) {
				name = strings.TrimSpace(name[:len(name)-len(s)])
				changed = true
				break
			}
		}
	}
	return name
}

func withoutWarnings(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !core.IsWarning(e) {
			out = append(out, e)
		}
	}
	return out
}
