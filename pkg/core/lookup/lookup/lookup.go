package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/lookup"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/middleware/metrics"
	"github.com/scienceol/chemstock/pkg/middleware/redis"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/pubchem"
	"github.com/scienceol/chemstock/pkg/repo/supplier"
	"github.com/scienceol/chemstock/pkg/utils"
)

const (
	cacheKeyPrefix = "chemstock:lookup:cas:"
	searchLimit    = 10
)

type Options struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	PoolSize int
}

type lookupImpl struct {
	opts     Options
	pubchem  repo.PubChemRepo
	supplier repo.SupplierRepo
	cache    *r.Client
	pools    *ants.Pool
}

func New() lookup.Service {
	conf := config.Global().Lookup
	return NewWithRepos(Options{
		Timeout:  conf.Timeout,
		CacheTTL: conf.CacheTTL,
		PoolSize: conf.PoolSize,
	}, pubchem.New(), supplier.New(), redis.GetClient())
}

// NewWithRepos wires explicit sources; a nil cache disables caching.
func NewWithRepos(opts Options, pc repo.PubChemRepo, sp repo.SupplierRepo, cache *r.Client) lookup.Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = ants.DefaultAntsPoolSize
	}
	pools, err := ants.NewPool(opts.PoolSize, ants.WithExpiryDuration(10*time.Second))
	if err != nil {
		logger.Errorf(context.Background(), "init lookup pool size: %d, err: %+v", opts.PoolSize, err)
	}
	return &lookupImpl{
		opts:     opts,
		pubchem:  pc,
		supplier: sp,
		cache:    cache,
		pools:    pools,
	}
}

func (l *lookupImpl) LookupCAS(ctx context.Context, cas string) (*lookup.ChemicalData, error) {
	cas = strings.TrimSpace(cas)
	if !utils.ValidCAS(cas) {
		return nil, code.InvalidCASErr
	}

	if data := l.fromCache(ctx, cas); data != nil {
		return data, nil
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		parts = []*lookup.Partial{lookup.Builtin(cas)}
	)
	sources := map[lookup.Source]func(context.Context) (*repo.CompoundInfo, error){
		lookup.SourcePubChem: func(c context.Context) (*repo.CompoundInfo, error) {
			return l.pubchem.GetCompoundByCAS(c, cas)
		},
		lookup.SourceSupplier: func(c context.Context) (*repo.CompoundInfo, error) {
			return l.supplier.GetProductByCAS(c, cas)
		},
	}
	for src, fetch := range sources {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			p := l.fetch(ctx, src, fetch)
			if p == nil {
				return
			}
			mu.Lock()
			parts = append(parts, p)
			mu.Unlock()
		}
		if err := l.submit(task); err != nil {
			logger.Warnf(ctx, "submit lookup source: %s, err: %+v", src, err)
			metrics.LookupSource.WithLabelValues(string(src), "rejected").Inc()
			wg.Done()
		}
	}
	wg.Wait()

	data := lookup.Merge(cas, parts...)
	if data.Name == "" {
		return nil, code.LookupNotFound.
			WithField("casNumber", cas).
			WithField("suggestion", "Try entering the chemical information manually")
	}

	l.toCache(ctx, cas, data)
	return data, nil
}

func (l *lookupImpl) submit(task func()) error {
	if l.pools == nil {
		go task()
		return nil
	}
	return l.pools.Submit(task)
}

// fetch runs one external source under the lookup timeout. Any failure is
// logged and reported as no data.
func (l *lookupImpl) fetch(ctx context.Context, src lookup.Source, fn func(context.Context) (*repo.CompoundInfo, error)) *lookup.Partial {
	tctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	var (
		info *repo.CompoundInfo
		err  error
	)
	if runErr := utils.SafelyRun(func() { info, err = fn(tctx) }); runErr != nil {
		err = runErr
	}
	switch {
	case err != nil:
		outcome := "error"
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		metrics.LookupSource.WithLabelValues(string(src), outcome).Inc()
		logger.Warnf(ctx, "lookup source: %s failed, err: %+v", src, err)
		return nil
	case info == nil:
		metrics.LookupSource.WithLabelValues(string(src), "miss").Inc()
		return nil
	}

	metrics.LookupSource.WithLabelValues(string(src), "hit").Inc()
	p := &lookup.Partial{
		Source:   src,
		Name:     strings.TrimSpace(info.Name),
		Formula:  strings.TrimSpace(info.Formula),
		Supplier: strings.TrimSpace(info.Supplier),
		SDSURL:   strings.TrimSpace(info.SDSURL),
	}
	if info.MolecularWeight > 0 {
		w := info.MolecularWeight
		p.MolecularWeight = &w
	}
	return p
}

func (l *lookupImpl) fromCache(ctx context.Context, cas string) *lookup.ChemicalData {
	if l.cache == nil || l.opts.CacheTTL <= 0 {
		return nil
	}
	raw, err := l.cache.Get(ctx, cacheKeyPrefix+cas).Bytes()
	if err != nil {
		if !errors.Is(err, r.Nil) {
			logger.Warnf(ctx, "read lookup cache cas: %s, err: %+v", cas, err)
		}
		metrics.LookupCache.WithLabelValues("miss").Inc()
		return nil
	}
	data := &lookup.ChemicalData{}
	if err := json.Unmarshal(raw, data); err != nil {
		metrics.LookupCache.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.LookupCache.WithLabelValues("hit").Inc()
	return data
}

func (l *lookupImpl) toCache(ctx context.Context, cas string, data *lookup.ChemicalData) {
	if l.cache == nil || l.opts.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, cacheKeyPrefix+cas, raw, l.opts.CacheTTL).Err(); err != nil {
		logger.Warnf(ctx, "write lookup cache cas: %s, err: %+v", cas, err)
	}
}

func (l *lookupImpl) Search(ctx context.Context, q string) ([]*lookup.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, code.ParamErr.WithMsg("Search query required")
	}

	results := lookup.SearchBuiltin(q)
	if len(results) >= searchLimit {
		return results[:searchLimit], nil
	}

	tctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()
	found, err := l.pubchem.SearchByName(tctx, q, searchLimit-len(results))
	if err != nil {
		logger.Warnf(ctx, "search pubchem q: %s, err: %+v", q, err)
		metrics.LookupSource.WithLabelValues(string(lookup.SourcePubChem), "error").Inc()
		found = nil
	}
	for _, f := range found {
		res := &lookup.SearchResult{Name: f.Name, Formula: f.Formula}
		if f.MolecularWeight > 0 {
			w := f.MolecularWeight
			res.MolecularWeight = &w
		}
		results = append(results, res)
	}
	if results == nil {
		results = []*lookup.SearchResult{}
	}
	return results, nil
}

func (l *lookupImpl) SDSLinks(_ context.Context, cas string) (*lookup.SDSLinks, error) {
	cas = strings.TrimSpace(cas)
	if !utils.ValidCAS(cas) {
		return nil, code.InvalidCASErr
	}
	escaped := url.QueryEscape(cas)
	return &lookup.SDSLinks{
		SigmaAldrich: "https://www.sigmaaldrich.com/US/en/sds/sial/" + strings.ReplaceAll(cas, "-", ""),
		Fisher:       fmt.Sprintf("https://www.fishersci.com/store/msds?partNumber=%s&vendorId=VN00033897", escaped),
		VWR:          fmt.Sprintf("https://us.vwr.com/store/search/searchAdv.jsp?keyword=%s&pimId=&tabId=&resultType=documents", escaped),
		Spectrum:     "https://www.spectrumchemical.com/search?term=" + escaped,
	}, nil
}
