package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestRecorderConcurrentDispatch(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Dispatch(context.Background(), fmt.Sprintf("uri-%d", i))
		}(i)
	}
	wg.Wait()

	got := r.URIs()
	if len(got) != 50 {
		t.Fatalf("recorded %d URIs, want 50", len(got))
	}
	got[0] = "changed"
	if r.URIs()[0] == "changed" {
		t.Error("URIs should return a copy")
	}
}
