package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"opinionetl/internal/model"
)

// fakeTx records inserts and fails on configured row indexes (counted from
// the start of the load set, via the shared repo counter).
type fakeTx struct {
	repo       *fakeRepo
	inserted   int
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Insert(ctx context.Context, sql string, args []any) error {
	idx := t.repo.rowCounter
	t.repo.rowCounter++
	if err := t.repo.rowErrs[idx]; err != nil {
		return err
	}
	t.inserted++
	return nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.repo.commitErr != nil {
		return t.repo.commitErr
	}
	t.committed = true
	t.repo.committedRows += t.inserted
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeRepo struct {
	pingErr   error
	beginErr  error
	commitErr error
	rowErrs   map[int]error

	rowCounter    int
	committedRows int
	txs           []*fakeTx
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeRepo) Begin(context.Context) (Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	tx := &fakeTx{repo: f}
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeRepo) IDPairs(context.Context, string, string, string) ([]IDPair, error) {
	return nil, nil
}
func (f *fakeRepo) Exec(context.Context, string) error { return nil }
func (f *fakeRepo) Dialect() Dialect {
	return Dialect{
		Placeholder: func(i int) string { return "?" },
		QuoteIdent:  func(s string) string { return s },
	}
}
func (f *fakeRepo) Close() {}

func sources(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = &model.Source{Name: fmt.Sprintf("Fuente_%d", i), SourceType: "Encuesta"}
	}
	return out
}

func TestLoaderPingFailureIsConnectivity(t *testing.T) {
	repo := &fakeRepo{pingErr: errors.New("refused")}
	l := &Loader{Repo: repo, BatchSize: 10}
	_, err := l.Load(context.Background(), sources(5))
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("want ErrConnectivity, got %v", err)
	}
	if len(repo.txs) != 0 {
		t.Fatal("no chunk may start after a failed ping")
	}
}

func TestLoaderEmptyInput(t *testing.T) {
	repo := &fakeRepo{}
	l := &Loader{Repo: repo, BatchSize: 10}
	sum, err := l.Load(context.Background(), nil)
	if err != nil || sum.Loaded != 0 || sum.Chunks != 0 {
		t.Fatalf("sum=%+v err=%v", sum, err)
	}
}

func TestLoaderChunking2500Rows(t *testing.T) {
	repo := &fakeRepo{}
	l := &Loader{Repo: repo, BatchSize: 1000}
	sum, err := l.Load(context.Background(), sources(2500))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Chunks != 3 {
		t.Errorf("chunks=%d want 3", sum.Chunks)
	}
	if sum.Loaded != 2500 {
		t.Errorf("loaded=%d want 2500", sum.Loaded)
	}
	if len(repo.txs) != 3 {
		t.Errorf("txs=%d want 3", len(repo.txs))
	}
	for i, tx := range repo.txs {
		if !tx.committed {
			t.Errorf("chunk %d not committed", i)
		}
	}
}

func TestLoaderRowFailureSkipsAndCommits(t *testing.T) {
	repo := &fakeRepo{rowErrs: map[int]error{3: errors.New("constraint"), 7: errors.New("constraint")}}
	l := &Loader{Repo: repo, BatchSize: 100}
	sum, err := l.Load(context.Background(), sources(10))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Loaded != 8 {
		t.Errorf("loaded=%d want 8", sum.Loaded)
	}
	if len(sum.Skipped) != 2 {
		t.Fatalf("skipped=%d want 2", len(sum.Skipped))
	}
	if sum.Skipped[0].Index != 3 || sum.Skipped[1].Index != 7 {
		t.Errorf("skipped indexes=%d,%d", sum.Skipped[0].Index, sum.Skipped[1].Index)
	}
	if sum.Loaded+len(sum.Skipped) != 10 {
		t.Error("conservation: loaded + skipped must equal committed input")
	}
	if !repo.txs[0].committed {
		t.Error("chunk with row failures must still commit")
	}
}

func TestLoaderFatalInsertAbandonsRun(t *testing.T) {
	repo := &fakeRepo{rowErrs: map[int]error{12: Fatal{Err: errors.New("conn lost")}}}
	l := &Loader{Repo: repo, BatchSize: 10}
	sum, err := l.Load(context.Background(), sources(30))

	var txErr *TxError
	if !errors.As(err, &txErr) {
		t.Fatalf("want *TxError, got %v", err)
	}
	if txErr.Chunk != 1 {
		t.Errorf("failed chunk=%d want 1", txErr.Chunk)
	}
	if sum.Loaded != 10 {
		t.Errorf("loaded=%d want 10 (first chunk only)", sum.Loaded)
	}
	if sum.Chunks != 1 {
		t.Errorf("chunks=%d want 1", sum.Chunks)
	}
	if len(repo.txs) != 2 {
		t.Fatalf("txs=%d want 2 (third chunk abandoned)", len(repo.txs))
	}
	if !repo.txs[1].rolledBack {
		t.Error("failed chunk must roll back")
	}
}

func TestLoaderCommitFailureRollsBack(t *testing.T) {
	repo := &fakeRepo{commitErr: errors.New("deadlock")}
	l := &Loader{Repo: repo, BatchSize: 10}
	sum, err := l.Load(context.Background(), sources(5))

	var txErr *TxError
	if !errors.As(err, &txErr) {
		t.Fatalf("want *TxError, got %v", err)
	}
	if sum.Loaded != 0 {
		t.Errorf("loaded=%d want 0 after commit failure", sum.Loaded)
	}
	if !repo.txs[0].rolledBack {
		t.Error("commit failure must roll back")
	}
}

func TestLoaderBeginFailure(t *testing.T) {
	repo := &fakeRepo{beginErr: errors.New("too many connections")}
	l := &Loader{Repo: repo, BatchSize: 10}
	_, err := l.Load(context.Background(), sources(5))
	var txErr *TxError
	if !errors.As(err, &txErr) || txErr.Chunk != 0 {
		t.Fatalf("want chunk-0 TxError, got %v", err)
	}
}

func TestLoaderDefaultBatchSize(t *testing.T) {
	repo := &fakeRepo{}
	l := &Loader{Repo: repo}
	sum, err := l.Load(context.Background(), sources(DefaultBatchSize+1))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Chunks != 2 {
		t.Errorf("chunks=%d want 2 with the default batch size", sum.Chunks)
	}
}
