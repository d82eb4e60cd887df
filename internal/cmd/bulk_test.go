package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunBulkOperation_Success(t *testing.T) {
	ids := []string{"pro_1", "pro_2", "pro_3", "pro_4", "pro_5"}
	var callCount atomic.Int32

	results := runBulkOperation(
		context.Background(),
		ids,
		5,
		false,
		nil,
		func(ctx context.Context, id string) (string, error) {
			callCount.Add(1)
			return "ok " + id, nil
		},
	)

	if int(callCount.Load()) != 5 {
		t.Errorf("expected 5 calls, got %d", callCount.Load())
	}
	success, failure := countResults(results)
	if success != 5 || failure != 0 {
		t.Errorf("expected 5 successes and 0 failures, got %d/%d", success, failure)
	}
}

func TestRunBulkOperation_PreservesOrder(t *testing.T) {
	ids := []string{"pri_a", "pri_b", "pri_c", "pri_d"}

	results := runBulkOperation(
		context.Background(),
		ids,
		4,
		false,
		nil,
		func(ctx context.Context, id string) (string, error) {
			// Finish in reverse order.
			switch id {
			case "pri_a":
				time.Sleep(30 * time.Millisecond)
			case "pri_b":
				time.Sleep(20 * time.Millisecond)
			case "pri_c":
				time.Sleep(10 * time.Millisecond)
			}
			return id, nil
		},
	)

	for i, r := range results {
		if r.ID != ids[i] || r.Data != ids[i] {
			t.Errorf("result %d = %+v, want ID %s", i, r, ids[i])
		}
	}
}

func TestRunBulkOperation_PartialFailure(t *testing.T) {
	ids := []string{"ctm_1", "ctm_2", "ctm_3"}

	results := runBulkOperation(
		context.Background(),
		ids,
		5,
		false,
		nil,
		func(ctx context.Context, id string) (string, error) {
			if id == "ctm_2" {
				return "", errors.New("failed")
			}
			return "ok", nil
		},
	)

	success, failure := countResults(results)
	if success != 2 || failure != 1 {
		t.Fatalf("expected 2 successes and 1 failure, got %d/%d", success, failure)
	}
	if results[1].Success || results[1].Error == nil {
		t.Errorf("expected ctm_2 to fail, got %+v", results[1])
	}
}

func TestRunBulkOperation_RespectsConcurrency(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = "dsc_" + strings.Repeat("x", i+1)
	}
	var running, peak atomic.Int32

	runBulkOperation(
		context.Background(),
		ids,
		3,
		false,
		nil,
		func(ctx context.Context, id string) (struct{}, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		},
	)

	if peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent operations, saw %d", peak.Load())
	}
}

func TestRunBulkOperation_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := runBulkOperation(
		ctx,
		[]string{"add_1", "add_2"},
		1,
		false,
		nil,
		func(ctx context.Context, id string) (string, error) {
			return "ok", nil
		},
	)

	for _, r := range results {
		if r.Success {
			t.Errorf("expected %s to fail after cancellation", r.ID)
		}
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", r.ID, r.Error)
		}
	}
}

func TestRunBulkOperation_Progress(t *testing.T) {
	var buf bytes.Buffer

	runBulkOperation(
		context.Background(),
		[]string{"biz_1", "biz_2"},
		1,
		true,
		&buf,
		func(ctx context.Context, id string) (string, error) {
			return "ok", nil
		},
	)

	if !strings.Contains(buf.String(), "Fetched 2/2") {
		t.Errorf("expected progress output, got %q", buf.String())
	}
}

func TestRunBulkOperation_DefaultConcurrency(t *testing.T) {
	results := runBulkOperation(
		context.Background(),
		[]string{"pro_1"},
		0,
		false,
		nil,
		func(ctx context.Context, id string) (int, error) {
			return 1, nil
		},
	)
	if len(results) != 1 || !results[0].Success {
		t.Errorf("expected one success with default concurrency, got %+v", results)
	}
}
