package app_test

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apilevel/internal/adapters/config"
	"go.trai.ch/apilevel/internal/adapters/descriptor"
	"go.trai.ch/apilevel/internal/adapters/telemetry"
	"go.trai.ch/apilevel/internal/app"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/core/ports/mocks"
	"go.trai.ch/apilevel/internal/engine/cache"
	"go.trai.ch/apilevel/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

// fakeWatcher replays events pushed by the test.
type fakeWatcher struct {
	started []string
	events  chan ports.WatchEvent
	stopped bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 4)}
}

func (w *fakeWatcher) Start(_ context.Context, paths ...string) error {
	w.started = append(w.started, paths...)
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.stopped = true
	return nil
}

func (w *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

type fixture struct {
	app        *app.App
	registry   *registry.Registry
	watcher    *fakeWatcher
	dir        string
	descriptor string
	cacheDir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Log(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "api-versions.xml"))
	require.NoError(t, err)
	desc := filepath.Join(dir, "api-versions.xml")
	require.NoError(t, os.WriteFile(desc, data, domain.FilePerm))

	manager := cache.NewManager(descriptor.NewParser(), mockLogger, telemetry.NewNoOpTracer())
	reg := registry.New(manager)
	w := newFakeWatcher()
	a := app.New(config.NewLoader(mockLogger), manager, reg, w, mockLogger).WithWorkDir(dir)

	return &fixture{
		app:        a,
		registry:   reg,
		watcher:    w,
		dir:        dir,
		descriptor: desc,
		cacheDir:   filepath.Join(dir, "cache"),
	}
}

func (f *fixture) options(platform string) app.Options {
	return app.Options{Overrides: config.Overrides{
		Descriptor: f.descriptor,
		Platform:   platform,
		CacheDir:   f.cacheDir,
	}}
}

func mustQuery(t *testing.T, kind app.Kind, args ...string) app.Query {
	t.Helper()
	q, err := app.NewQuery(kind, args...)
	require.NoError(t, err)
	return q
}

func TestApp_Query(t *testing.T) {
	f := newFixture(t)

	answers, err := f.app.Query(t.Context(), f.options("android-34"),
		mustQuery(t, app.KindClass, "android.app.Activity"),
		mustQuery(t, app.KindField, "android/app/Activity", "ACCESSIBILITY_SERVICE"),
		mustQuery(t, app.KindCall, "android/app/Activity", "getColor", "(I)I"),
		mustQuery(t, app.KindCall, "android/app/Activity", "onBackPressed()V"),
		mustQuery(t, app.KindPackage, "java/awt/Color"),
		mustQuery(t, app.KindCast, "android/app/Activity", "java/lang/Object"),
		mustQuery(t, app.KindSuper, "android/app/Activity"),
	)
	require.NoError(t, err)
	require.Len(t, answers, 7)

	assert.Equal(t, domain.APILevel(1), answers[0].Since)
	assert.Equal(t, domain.NotFound, answers[0].Deprecated)
	assert.Equal(t, domain.APILevel(4), answers[1].Since, "field is inherited from Context")
	assert.Equal(t, domain.APILevel(23), answers[2].Since, "method is inherited from Context")
	assert.Equal(t, domain.APILevel(5), answers[3].Since)
	assert.Equal(t, domain.APILevel(33), answers[3].Deprecated)
	assert.False(t, answers[4].Valid)
	assert.Equal(t, domain.APILevel(1), answers[5].Since)
	assert.Equal(t, "android/content/Context", answers[6].Superclass)

	assert.FileExists(t, filepath.Join(f.cacheDir, domain.CacheFileName(f.descriptor, "android-34")))
}

func TestApp_Lookup_Memoized(t *testing.T) {
	f := newFixture(t)

	first, err := f.app.Lookup(t.Context(), f.options("android-34"))
	require.NoError(t, err)
	second, err := f.app.Lookup(t.Context(), f.options("android-34"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.registry.Len())
}

func TestApp_Client_RequiresPlatformAndDescriptor(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Client(app.Options{Overrides: config.Overrides{Descriptor: f.descriptor}})
	require.ErrorContains(t, err, domain.ErrMissingPlatform.Error())

	_, err = f.app.Client(app.Options{Overrides: config.Overrides{Platform: "android-34"}})
	require.ErrorContains(t, err, domain.ErrMissingDescriptor.Error())
}

func TestApp_Settings_FromConfigFile(t *testing.T) {
	f := newFixture(t)
	cfg := "descriptor: api-versions.xml\nplatform: android-33\ncacheDir: .apilevel\nclientId: ide\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, domain.ConfigFileName), []byte(cfg), domain.FilePerm))

	c, err := f.app.Client(app.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ide", c.ID())
	assert.Equal(t, "android-33", c.Platform())
	assert.Equal(t, f.descriptor, c.DescriptorPath())

	c, err = f.app.Client(app.Options{Overrides: config.Overrides{Platform: "android-34"}})
	require.NoError(t, err)
	assert.Equal(t, "android-34", c.Platform(), "flags override the config file")
}

func TestApp_WarmAndClean(t *testing.T) {
	f := newFixture(t)
	opts := f.options("android-34")

	results, err := f.app.Warm(t.Context(), opts, "android-33", "android-34", "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "android-34", results[0].Platform)
	assert.Equal(t, "android-33", results[1].Platform)
	for _, r := range results {
		assert.FileExists(t, r.Path)
		assert.Equal(t, uint32(3), r.Classes)
	}
	assert.Equal(t, 2, f.registry.Len())

	removed, err := f.app.Clean(t.Context(), opts, "android-33")
	require.NoError(t, err)
	require.Len(t, removed, 2)
	for _, path := range removed {
		assert.NoFileExists(t, path)
	}
	assert.Equal(t, 0, f.registry.Len())
}

func TestApp_Dump(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, f.app.Dump(t.Context(), f.options("android-34"), &buf))

	out := buf.String()
	assert.Contains(t, out, "classes 3 ")
	assert.Contains(t, out, "class android/app/Activity since=1\n")
	assert.Contains(t, out, "  extends android/content/Context\n")
	assert.Contains(t, out, "  member onBackPressed() since=5 deprecated=33\n")
}

func TestApp_Watch_DisposesRegistry(t *testing.T) {
	f := newFixture(t)
	opts := f.options("android-34")

	_, err := f.app.Lookup(t.Context(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, f.registry.Len())

	var changed []string
	f.watcher.events <- ports.WatchEvent{Path: f.descriptor}
	close(f.watcher.events)

	require.NoError(t, f.app.Watch(t.Context(), opts, func(paths []string) {
		changed = paths
	}))

	assert.Equal(t, []string{f.descriptor}, f.watcher.started)
	assert.True(t, f.watcher.stopped)
	assert.Equal(t, []string{f.descriptor}, changed)
	assert.Equal(t, 0, f.registry.Len())
}
