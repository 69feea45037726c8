package dispatch

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/starford/ansuz/internal/testutil"
)

func TestOpener_CommandPerOS(t *testing.T) {
	const uri = "obsidian://advanced-uri?vault=V"
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", uri}},
		{"linux", []string{"xdg-open", uri}},
		{"freebsd", []string{"xdg-open", uri}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", uri}},
	}
	for _, tt := range tests {
		var got []string
		o := NewOpenerWith(tt.goos, func(_ context.Context, name string, args ...string) error {
			got = append([]string{name}, args...)
			return nil
		})
		if err := o.Dispatch(context.Background(), uri); err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s: ran %v, want %v", tt.goos, got, tt.want)
		}
	}
}

func TestOpener_RunError(t *testing.T) {
	boom := errors.New("boom")
	o := NewOpenerWith("linux", func(context.Context, string, ...string) error { return boom })
	if err := o.Dispatch(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestMulti(t *testing.T) {
	a, b := &testutil.Recorder{}, &testutil.Recorder{}
	failing := NewOpenerWith("linux", func(context.Context, string, ...string) error { return errors.New("no handler") })

	err := Multi{a, failing, b}.Dispatch(context.Background(), "uri")
	if err == nil {
		t.Error("expected joined error")
	}
	if len(a.URIs()) != 1 || len(b.URIs()) != 1 {
		t.Errorf("every member should run: a=%v b=%v", a.URIs(), b.URIs())
	}
}
