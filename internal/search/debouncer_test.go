package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/felixgeelhaar/maison/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	queries []string
	block   chan struct{}
}

func (r *recorder) fetch(ctx context.Context, query string) ([]domain.Product, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	block := r.block
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []domain.Product{{ID: "p-" + query, Name: query}}, nil
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func receive(t *testing.T, d *Debouncer) Result {
	t.Helper()
	select {
	case r := <-d.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
		return Result{}
	}
}

func TestBurstSendsOneRequest(t *testing.T) {
	rec := &recorder{}
	d := New(rec.fetch, 30*time.Millisecond)
	defer d.Close()

	for _, q := range []string{"k", "ku", "kur", "kurt", "kurta"} {
		d.Input(q)
	}

	r := receive(t, d)
	assert.Equal(t, "kurta", r.Query)
	require.Len(t, r.Products, 1)
	assert.Equal(t, "p-kurta", r.Products[0].ID)
	assert.Equal(t, []string{"kurta"}, rec.calls())
}

func TestShortQueryClearsWithoutRequest(t *testing.T) {
	rec := &recorder{}
	d := New(rec.fetch, 10*time.Millisecond)
	defer d.Close()

	gen := d.Input("k")
	r := receive(t, d)
	assert.True(t, r.Cleared)
	assert.Empty(t, r.Products)
	assert.Equal(t, gen, r.Generation)

	d.Input("  ")
	assert.True(t, receive(t, d).Cleared)

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.calls())
}

func TestUnreadClearedResultIsDroppedByNewerInput(t *testing.T) {
	rec := &recorder{}
	d := New(rec.fetch, 10*time.Millisecond)
	defer d.Close()

	d.Input("k")
	latest := d.Input("kurta")

	r := receive(t, d)
	assert.Equal(t, latest, r.Generation)
	assert.Equal(t, "kurta", r.Query)
	assert.False(t, r.Cleared)
	select {
	case extra := <-d.Results():
		t.Fatalf("unexpected result %+v", extra)
	default:
	}
}

func TestNewInputCancelsInFlightRequest(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	d := New(rec.fetch, 5*time.Millisecond)
	defer d.Close()

	d.Input("silk")
	require.Eventually(t, func() bool { return len(rec.calls()) == 1 }, time.Second, time.Millisecond)

	rec.mu.Lock()
	rec.block = nil
	rec.mu.Unlock()
	latest := d.Input("lawn")

	r := receive(t, d)
	assert.Equal(t, "lawn", r.Query)
	assert.Equal(t, latest, r.Generation)
	assert.NoError(t, r.Err)
}

func TestShortQueryDiscardsPendingSearch(t *testing.T) {
	rec := &recorder{}
	d := New(rec.fetch, 20*time.Millisecond)
	defer d.Close()

	d.Input("silk")
	d.Input("s")

	r := receive(t, d)
	assert.True(t, r.Cleared)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.calls())
	select {
	case extra := <-d.Results():
		t.Fatalf("unexpected result %+v", extra)
	default:
	}
}

func TestFetchErrorIsDelivered(t *testing.T) {
	boom := errors.New("boom")
	d := New(func(context.Context, string) ([]domain.Product, error) { return nil, boom }, 5*time.Millisecond)
	defer d.Close()

	d.Input("gown")
	r := receive(t, d)
	assert.ErrorIs(t, r.Err, boom)
}

func TestCloseCancelsAndClosesResults(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	d := New(rec.fetch, 5*time.Millisecond)

	d.Input("saree")
	require.Eventually(t, func() bool { return len(rec.calls()) == 1 }, time.Second, time.Millisecond)
	d.Close()

	_, ok := <-d.Results()
	assert.False(t, ok)

	d.Input("ignored")
	d.Close()
}

func TestDefaultDelay(t *testing.T) {
	d := New(nil, 0)
	assert.Equal(t, DefaultDelay, d.delay)
	d.Close()
}
