package registry_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/apilevel/internal/adapters/descriptor"
	"go.trai.ch/apilevel/internal/adapters/telemetry"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/core/ports/mocks"
	"go.trai.ch/apilevel/internal/engine/apidb"
	"go.trai.ch/apilevel/internal/engine/cache"
	"go.trai.ch/apilevel/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

// countingLoader builds a fixed index and counts how often it was asked to.
type countingLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{started: make(chan struct{}, 64)}
}

func (l *countingLoader) Load(_ context.Context, client ports.Client) (*cache.Result, error) {
	l.calls.Add(1)
	l.started <- struct{}{}
	if l.release != nil {
		<-l.release
	}
	if l.err != nil {
		return nil, l.err
	}

	data, err := apidb.Build(&domain.Descriptor{Classes: []domain.ClassEntry{
		{Name: "android/app/Activity", Since: 1},
		{Name: "android/app/Fragment", Since: 11, Deprecated: 28},
	}})
	if err != nil {
		return nil, err
	}
	ix, err := apidb.Load(data)
	if err != nil {
		return nil, err
	}
	return &cache.Result{Index: ix, State: cache.StateMissing, Path: client.Platform()}, nil
}

func newClient(ctrl *gomock.Controller, id, platform string) *mocks.MockClient {
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().ID().Return(id).AnyTimes()
	client.EXPECT().Platform().Return(platform).AnyTimes()
	return client
}

func TestRegistry_GetIsMemoized(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	reg := registry.New(loader)
	client := newClient(ctrl, "lint", "android-34")

	first, err := reg.Get(t.Context(), client)
	require.NoError(t, err)
	second, err := reg.Get(t.Context(), client)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	reg := registry.New(loader)

	a, err := reg.Get(t.Context(), newClient(ctrl, "lint", "android-33"))
	require.NoError(t, err)
	b, err := reg.Get(t.Context(), newClient(ctrl, "lint", "android-34"))
	require.NoError(t, err)
	c, err := reg.Get(t.Context(), newClient(ctrl, "studio", "android-34"))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotSame(t, b, c)
	assert.Equal(t, int32(3), loader.calls.Load())
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_ConcurrentGetBuildsOnce(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	loader.release = make(chan struct{})
	reg := registry.New(loader)
	client := newClient(ctrl, "lint", "android-34")

	const callers = 16
	results := make([]*apidb.Lookup, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			lookup, err := reg.Get(context.Background(), client)
			assert.NoError(t, err)
			results[i] = lookup
		})
	}

	<-loader.started
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, lookup := range results {
		assert.Same(t, results[0], lookup)
	}
}

func TestRegistry_Dispose(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	reg := registry.New(loader)
	client := newClient(ctrl, "lint", "android-34")

	before, err := reg.Get(t.Context(), client)
	require.NoError(t, err)

	reg.Dispose()
	assert.Equal(t, 0, reg.Len())

	after, err := reg.Get(t.Context(), client)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, int32(2), loader.calls.Load())

	for _, name := range []string{"android/app/Activity", "android/app/Fragment", "android/app/Missing"} {
		want, err := before.ClassVersion(name)
		require.NoError(t, err)
		got, err := after.ClassVersion(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestRegistry_DisposeDuringConstruction(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	loader.release = make(chan struct{})
	reg := registry.New(loader)
	client := newClient(ctrl, "lint", "android-34")

	done := make(chan *apidb.Lookup)
	go func() {
		lookup, err := reg.Get(context.Background(), client)
		assert.NoError(t, err)
		done <- lookup
	}()

	<-loader.started
	reg.Dispose()
	close(loader.release)

	assert.NotNil(t, <-done)
	assert.Equal(t, 0, reg.Len(), "a construction racing Dispose must not be memoized")
}

func TestRegistry_ErrorsAreNotMemoized(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	loader.err = errors.New("descriptor unreadable")
	reg := registry.New(loader)
	client := newClient(ctrl, "lint", "android-34")

	_, err := reg.Get(t.Context(), client)
	require.Error(t, err)
	assert.ErrorContains(t, err, "descriptor unreadable")
	assert.Equal(t, 0, reg.Len())

	loader.err = nil
	_, err = reg.Get(t.Context(), client)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestRegistry_Preload(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loader := newCountingLoader()
	reg := registry.New(loader)

	err := reg.Preload(t.Context(),
		newClient(ctrl, "lint", "android-33"),
		newClient(ctrl, "lint", "android-34"),
		newClient(ctrl, "lint", "android-35"),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	loader.err = errors.New("boom")
	err = reg.Preload(t.Context(), newClient(ctrl, "lint", "android-36"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}

// TestRegistry_WithCacheManager runs the registry over the real cache manager:
// the first Get is silent, and after Dispose the rebuilt lookup answers the
// same way even when the cache file was truncated in between.
func TestRegistry_WithCacheManager(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	dir := t.TempDir()
	descPath := filepath.Join(dir, "api-versions.xml")
	require.NoError(t, os.WriteFile(descPath, []byte(`<api version="3">
	<class name="java/lang/Object" since="1"/>
	<class name="android/view/View" since="1">
		<extends name="java/lang/Object"/>
		<field name="LAYER_TYPE_HARDWARE" since="11"/>
	</class>
	<class name="android/widget/TextView" since="1">
		<extends name="android/view/View"/>
	</class>
</api>`), domain.FilePerm))
	cacheDir := filepath.Join(dir, "cache")

	client := newClient(ctrl, "lint", "android-34")
	client.EXPECT().DescriptorPath().Return(descPath).AnyTimes()
	client.EXPECT().CacheDir(gomock.Any()).DoAndReturn(func(_ bool) (string, error) {
		return cacheDir, os.MkdirAll(cacheDir, domain.DirPerm)
	}).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	reg := registry.New(cache.NewManager(descriptor.NewParser(), logger, telemetry.NewNoOpTracer()))

	lookup, err := reg.Get(t.Context(), client)
	require.NoError(t, err)
	level, err := lookup.FieldVersion("android/widget/TextView", "LAYER_TYPE_HARDWARE")
	require.NoError(t, err)
	assert.Equal(t, domain.APILevel(11), level)

	require.NoError(t, os.Truncate(filepath.Join(cacheDir, "api-versions-android-34.bin"), 10))
	logger.EXPECT().Log(domain.SeverityWarning, gomock.Any(), gomock.Any()).Times(1)

	// Memoized: the truncated file is not looked at until Dispose.
	same, err := reg.Get(t.Context(), client)
	require.NoError(t, err)
	assert.Same(t, lookup, same)

	reg.Dispose()
	rebuilt, err := reg.Get(t.Context(), client)
	require.NoError(t, err)
	level, err = rebuilt.FieldVersion("android/widget/TextView", "LAYER_TYPE_HARDWARE")
	require.NoError(t, err)
	assert.Equal(t, domain.APILevel(11), level)
}
