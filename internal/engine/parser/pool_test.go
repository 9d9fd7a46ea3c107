package parser

import (
	"sync"
	"testing"

	"codeshape/internal/engine/language"
)

func statsFor(t *testing.T, pool *ParserPool, d language.Dialect) PoolStats {
	t.Helper()
	for _, st := range pool.Stats() {
		if st.Dialect == d {
			return st
		}
	}
	t.Fatalf("no stats for dialect %s", d)
	return PoolStats{}
}

func TestParserPool_LeasesPerDialect(t *testing.T) {
	pool := NewParserPool(nil, 2)
	defer pool.Close()

	js, err := pool.Get(language.DialectJavaScript)
	if err != nil {
		t.Fatalf("get javascript: %v", err)
	}
	ts, err := pool.Get(language.DialectTypeScript)
	if err != nil {
		t.Fatalf("get typescript: %v", err)
	}

	if st := statsFor(t, pool, language.DialectJavaScript); st.Active != 1 || st.Created != 1 {
		t.Fatalf("unexpected javascript stats: %+v", st)
	}
	if st := statsFor(t, pool, language.DialectTSX); st.Active != 0 || st.Created != 0 {
		t.Fatalf("tsx should be untouched: %+v", st)
	}
	if st := statsFor(t, pool, language.DialectTypeScript); st.OldestLease < 0 {
		t.Fatalf("lease age must not be negative: %+v", st)
	}

	pool.Put(js)
	pool.Put(ts)

	st := statsFor(t, pool, language.DialectJavaScript)
	if st.Active != 0 || st.Idle != 1 || st.OldestLease != 0 {
		t.Fatalf("expected one idle javascript parser, got %+v", st)
	}

	again, err := pool.Get(language.DialectJavaScript)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Put(again)
	if st := statsFor(t, pool, language.DialectJavaScript); st.Created != 1 {
		t.Fatalf("idle parser should be reused, created=%d", st.Created)
	}
}

func TestParserPool_ReusedParserKeepsDialect(t *testing.T) {
	pool := NewParserPool(nil, 1)
	defer pool.Close()

	sp, err := pool.Get(language.DialectTypeScript)
	if err != nil {
		t.Fatal(err)
	}
	pool.Put(sp)

	sp, err = pool.Get(language.DialectTypeScript)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Put(sp)

	tree := sp.Parse([]byte("let n: number = 1;\n"), nil)
	if tree == nil {
		t.Fatal("expected a tree")
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		t.Fatal("typescript annotation should parse with the typescript grammar")
	}
}

func TestParserPool_UnknownDialect(t *testing.T) {
	pool := NewParserPool(nil, 1)
	if _, err := pool.Get(language.Dialect("cobol")); err == nil {
		t.Fatal("expected error for a dialect without a grammar")
	}
}

func TestParserPool_PutIgnoresForeignParsers(t *testing.T) {
	pool := NewParserPool(nil, 1)
	defer pool.Close()

	pool.Put(nil)

	other := NewParserPool(nil, 1)
	defer other.Close()
	sp, err := other.Get(language.DialectJavaScript)
	if err != nil {
		t.Fatal(err)
	}
	pool.Put(sp)
	if st := statsFor(t, pool, language.DialectJavaScript); st.Idle != 0 {
		t.Fatalf("foreign parser must not join the pool: %+v", st)
	}
	other.Put(sp)
}

func TestParserPool_IdleLimit(t *testing.T) {
	pool := NewParserPool(nil, 1)
	defer pool.Close()

	a, _ := pool.Get(language.DialectJavaScript)
	b, _ := pool.Get(language.DialectJavaScript)
	pool.Put(a)
	pool.Put(b)

	st := statsFor(t, pool, language.DialectJavaScript)
	if st.Idle != 1 || st.Created != 2 {
		t.Fatalf("expected one idle of two created, got %+v", st)
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(nil, 4)
	defer pool.Close()

	const goroutines = 20
	const iters = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	src := []byte("const run = () => 1;\n")

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp, err := pool.Get(language.DialectJavaScript)
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}

	wg.Wait()
	st := statsFor(t, pool, language.DialectJavaScript)
	if st.Active != 0 {
		t.Fatalf("expected all leases returned, got %d", st.Active)
	}
	if st.Idle > 4 {
		t.Fatalf("idle parsers above limit: %d", st.Idle)
	}
}
