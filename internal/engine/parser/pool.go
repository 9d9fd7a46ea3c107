package parser

import (
	"fmt"
	"sync"
	"time"

	"codeshape/internal/engine/language"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool leases tree-sitter parsers per dialect. Returned parsers are
// kept idle up to maxIdle per dialect and closed beyond that, so a burst of
// concurrent scans does not pin parsers forever.
//
//	sp, err := pool.Get(language.DialectTSX)
//	if err != nil { ... }
//	defer pool.Put(sp)
type ParserPool struct {
	loader  *GrammarLoader
	maxIdle int

	mu      sync.Mutex
	idle    map[language.Dialect][]*sitter.Parser
	leases  map[*sitter.Parser]lease
	created map[language.Dialect]int
}

type lease struct {
	dialect language.Dialect
	since   time.Time
}

// PoolStats describes the parsers of one dialect at a point in time.
type PoolStats struct {
	Dialect     language.Dialect `json:"dialect" yaml:"dialect"`
	Idle        int              `json:"idle" yaml:"idle"`
	Active      int              `json:"active" yaml:"active"`
	Created     int              `json:"created" yaml:"created"`
	OldestLease time.Duration    `json:"oldestLease" yaml:"oldestLease"`
}

// NewParserPool keeps at most maxIdle idle parsers per dialect; values below
// one are raised to one.
func NewParserPool(loader *GrammarLoader, maxIdle int) *ParserPool {
	if loader == nil {
		loader = NewGrammarLoader()
	}
	if maxIdle < 1 {
		maxIdle = 1
	}
	return &ParserPool{
		loader:  loader,
		maxIdle: maxIdle,
		idle:    make(map[language.Dialect][]*sitter.Parser),
		leases:  make(map[*sitter.Parser]lease),
		created: make(map[language.Dialect]int),
	}
}

// Get leases a parser set up for dialect, reusing an idle one when possible.
func (p *ParserPool) Get(d language.Dialect) (*sitter.Parser, error) {
	lang, err := p.loader.Language(d)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	var sp *sitter.Parser
	if n := len(p.idle[d]); n > 0 {
		sp = p.idle[d][n-1]
		p.idle[d] = p.idle[d][:n-1]
	}
	p.mu.Unlock()

	if sp == nil {
		sp = sitter.NewParser()
		if err := sp.SetLanguage(lang); err != nil {
			sp.Close()
			return nil, fmt.Errorf("set %s grammar: %w", d, err)
		}
		p.mu.Lock()
		p.created[d]++
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.leases[sp] = lease{dialect: d, since: time.Now()}
	p.mu.Unlock()
	return sp, nil
}

// Put ends the lease on sp. Parsers the pool did not hand out are ignored.
// Callers must not use sp after.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()

	p.mu.Lock()
	l, ok := p.leases[sp]
	if !ok {
		p.mu.Unlock()
		return
	}
	delete(p.leases, sp)
	keep := len(p.idle[l.dialect]) < p.maxIdle
	if keep {
		p.idle[l.dialect] = append(p.idle[l.dialect], sp)
	}
	p.mu.Unlock()

	if !keep {
		sp.Close()
	}
}

// Stats reports every loaded dialect, in the loader's order.
func (p *ParserPool) Stats() []PoolStats {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	dialects := p.loader.Dialects()
	byDialect := make(map[language.Dialect]*PoolStats, len(dialects))
	out := make([]PoolStats, len(dialects))
	for i, d := range dialects {
		out[i] = PoolStats{Dialect: d, Idle: len(p.idle[d]), Created: p.created[d]}
		byDialect[d] = &out[i]
	}
	for _, l := range p.leases {
		st, ok := byDialect[l.dialect]
		if !ok {
			continue
		}
		st.Active++
		if age := now.Sub(l.since); age > st.OldestLease {
			st.OldestLease = age
		}
	}
	return out
}

// Close releases idle parsers. Leased parsers are closed when they come back.
func (p *ParserPool) Close() {
	p.mu.Lock()
	idle := p.idle
	p.idle = make(map[language.Dialect][]*sitter.Parser)
	p.maxIdle = 0
	p.mu.Unlock()

	for _, parsers := range idle {
		for _, sp := range parsers {
			sp.Close()
		}
	}
}
