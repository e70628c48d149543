package apidb_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/engine/apidb"
)

// platformFixture is a small slice of a platform API surface covering
// superclass chains, interfaces with late edges and removed symbols.
func platformFixture() *domain.Descriptor {
	return &domain.Descriptor{
		Name:        "api-versions",
		Fingerprint: 0xC0FFEE,
		Classes: []domain.ClassEntry{
			{
				Name:  "java/lang/Object",
				Since: 1,
				Members: []domain.MemberEntry{
					{Key: "<init>()", Since: 1},
					{Key: "hashCode()", Since: 1},
					{Key: "toString()", Since: 1},
				},
			},
			{
				Name:       "android/app/Activity",
				Since:      1,
				Superclass: domain.Edge{Name: "android/content/ContextWrapper", Since: 1},
				Interfaces: []domain.Edge{
					{Name: "android/content/ComponentCallbacks2", Since: 14},
					{Name: "android/view/Window$Callback"},
				},
				Members: []domain.MemberEntry{
					{Key: "<init>()"},
					{Key: "getLastNonConfigurationInstance()", Since: 1, Deprecated: 15},
					{Key: "onCreate(Landroid/os/Bundle;)"},
					{Key: "RESULT_OK", Since: 1},
				},
			},
			{
				Name:       "android/content/ContextWrapper",
				Since:      1,
				Superclass: domain.Edge{Name: "android/content/Context", Since: 1},
				Members: []domain.MemberEntry{
					{Key: "<init>(Landroid/content/Context;)", Since: 1},
					{Key: "getBaseContext()", Since: 1},
				},
			},
			{
				Name:       "android/content/Context",
				Since:      1,
				Superclass: domain.Edge{Name: "java/lang/Object", Since: 1},
				Members: []domain.MemberEntry{
					{Key: "<init>()", Since: 1},
					{Key: "MODE_PRIVATE", Since: 1},
					{Key: "WINDOW_SERVICE", Since: 1},
					{Key: "JOB_SCHEDULER_SERVICE", Since: 21},
					{Key: "getColor(I)", Since: 23},
					{Key: "MODE_WORLD_READABLE", Since: 1, Deprecated: 17},
				},
			},
			{
				Name:       "android/content/ComponentCallbacks2",
				Since:      14,
				Interfaces: []domain.Edge{{Name: "android/content/ComponentCallbacks", Since: 14}},
				Members: []domain.MemberEntry{
					{Key: "TRIM_MEMORY_COMPLETE"},
					{Key: "onTrimMemory(I)"},
				},
			},
			{
				Name:  "android/content/ComponentCallbacks",
				Since: 1,
				Members: []domain.MemberEntry{
					{Key: "onLowMemory()", Since: 1},
				},
			},
			{
				Name:       "android/util/FloatMath",
				Since:      1,
				Deprecated: 22,
				Removed:    23,
				Superclass: domain.Edge{Name: "java/lang/Object", Since: 1},
				Members: []domain.MemberEntry{
					{Key: "sqrt(F)", Since: 1, Deprecated: 22, Removed: 23},
				},
			},
			{
				Name:       "android/view/View",
				Since:      1,
				Superclass: domain.Edge{Name: "java/lang/Object", Since: 1},
				Members: []domain.MemberEntry{
					{Key: "SCROLL_INDICATOR_TOP", Since: 23},
					{Key: "setLayerType(ILandroid/graphics/Paint;)", Since: 11},
					{Key: "LAYER_TYPE_HARDWARE", Since: 11},
				},
			},
			{
				Name:       "android/widget/TextView",
				Since:      1,
				Superclass: domain.Edge{Name: "android/view/View", Since: 1},
			},
		},
	}
}

func buildFixture(t *testing.T) []byte {
	t.Helper()
	data, err := apidb.Build(platformFixture())
	require.NoError(t, err)
	return data
}

func loadFixture(t *testing.T) *apidb.Lookup {
	t.Helper()
	ix, err := apidb.Load(buildFixture(t))
	require.NoError(t, err)
	return apidb.NewLookup(ix)
}
