package cmd

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kindletools/kindle-fetch/internal/locator"
	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/platform"
	"github.com/kindletools/kindle-fetch/internal/platform/fake"
)

// withProvider swaps the registered platform backend for a fake for the
// duration of one test.
func withProvider(t *testing.T, provider *platform.Provider) {
	t.Helper()
	orig := platform.NewProviderFunc
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return provider, nil
	}
	t.Cleanup(func() { platform.NewProviderFunc = orig })
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	fnErr := fn()
	w.Close()
	os.Stdout = orig
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data), fnErr
}

func TestRun_ProcessNotFound(t *testing.T) {
	withProvider(t, &platform.Provider{
		Desktop:  &fake.Desktop{},
		Inputter: &fake.Inputter{},
	})

	err := runRun(runCmd, nil)
	if err == nil {
		t.Fatal("expected error when host process is absent")
	}
	if !strings.Contains(err.Error(), "Kindle.exe is not running") {
		t.Errorf("error = %q, want process-not-found message", err)
	}
}

func TestRun_NoLibraryList(t *testing.T) {
	window := fake.NewElement("Window", "Kindle")
	withProvider(t, &platform.Provider{
		Desktop: &fake.Desktop{
			RootElem: window,
			App:      &fake.Application{Window: window},
		},
		Inputter: &fake.Inputter{},
	})

	err := runRun(runCmd, nil)
	if !errors.Is(err, locator.ErrNoList) {
		t.Errorf("error = %v, want %v", err, locator.ErrNoList)
	}
}

func TestInspect_ListsVisibleItems(t *testing.T) {
	list := fake.NewElement("List", "Library")
	list.ElemAutoID = "compact"
	for i, title := range []string{"First Book", "Second Book"} {
		item := fake.NewElement("ListItem", title)
		item.Runtime = []int{42, i + 1}
		list.Children = append(list.Children, item)
	}
	list.Count = len(list.Children)
	list.HasCount = true

	window := fake.NewElement("Window", "Kindle")
	window.Children = []*fake.Element{list}
	withProvider(t, &platform.Provider{
		Desktop: &fake.Desktop{
			RootElem: window,
			App:      &fake.Application{Window: window},
		},
		Inputter: &fake.Inputter{},
	})

	out, err := captureStdout(t, func() error {
		return runInspect(inspectCmd, nil)
	})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"compact", "First Book", "Second Book", "42.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWindows_ListsHostWindows(t *testing.T) {
	window := fake.NewElement("Window", "Kindle")
	withProvider(t, &platform.Provider{
		Desktop: &fake.Desktop{
			RootElem: window,
			App: &fake.Application{
				Window: window,
				WindowList: []model.Window{
					{App: "Kindle.exe", PID: 4242, Title: "Kindle", Focused: true},
				},
			},
		},
		Inputter: &fake.Inputter{},
	})

	out, err := captureStdout(t, func() error {
		return runWindows(windowsCmd, nil)
	})
	if err != nil {
		t.Fatalf("windows: %v", err)
	}
	for _, want := range []string{"Kindle.exe", "4242"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
