package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strand-systems/knotsig/goknot"
	"github.com/strand-systems/knotsig/libknot"
	"github.com/strand-systems/knotsig/libknot/catalog"
)

func TestCatalogBasics(t *testing.T) {
	ctx := goknot.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	dir, err := os.MkdirTemp("", "knotsig*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts := goknot.CatalogOpts{
		DbPathName:    path.Join(dir, "TestBasics"),
		CrossingLimit: 8,
	}
	cat, err := catalog.OpenCatalog(ctx, opts)
	require.NoError(t, err)

	sigs := make(map[goknot.Signature]int)
	for L := range libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 2}).Outlet {
		sig, err := L.Sig(true, true)
		require.NoError(t, err)
		sigs[sig] = L.NumCrossings()
	}
	require.NotEmpty(t, sigs)

	for sig, n := range sigs {
		added, err := cat.TryAddSig(sig, n)
		require.NoError(t, err)
		require.True(t, added)

		added, err = cat.TryAddSig(sig, n)
		require.NoError(t, err)
		require.False(t, added)
	}

	perCount := map[int]int64{}
	for _, n := range sigs {
		perCount[n]++
	}
	for n, want := range perCount {
		require.Equal(t, want, cat.NumSigs(n))
	}
	require.Zero(t, cat.NumSigs(7))
	require.Zero(t, cat.NumSigs(-1))

	_, err = cat.TryAddSig("zzz", 9)
	require.ErrorIs(t, err, goknot.ErrBadCatalogParam)

	require.NoError(t, cat.Close())

	// counts survive a close and reopen
	cat, err = catalog.OpenCatalog(ctx, opts)
	require.NoError(t, err)
	for n, want := range perCount {
		require.Equal(t, want, cat.NumSigs(n))
	}
	require.NoError(t, cat.Close())

	// read-only reopen accepts lookups but refuses writes
	opts.ReadOnly = true
	cat, err = catalog.OpenCatalog(ctx, opts)
	require.NoError(t, err)
	require.True(t, cat.IsReadOnly())
	_, err = cat.TryAddSig("abc", 1)
	require.ErrorIs(t, err, goknot.ErrBadCatalogParam)
	require.NoError(t, cat.Close())
}

func TestCatalogInMemory(t *testing.T) {
	ctx := goknot.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	cat, err := catalog.OpenCatalog(ctx, goknot.CatalogOpts{CrossingLimit: 4})
	require.NoError(t, err)
	defer cat.Close()

	added, err := cat.TryAddSig("bcaabd", 1)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, int64(1), cat.NumSigs(1))

	// read-only without a db path is rejected
	_, err = catalog.OpenCatalog(ctx, goknot.CatalogOpts{ReadOnly: true})
	require.ErrorIs(t, err, goknot.ErrBadCatalogParam)
}

func TestCatalogSelect(t *testing.T) {
	ctx := goknot.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	cat, err := catalog.OpenCatalog(ctx, goknot.CatalogOpts{CrossingLimit: 8})
	require.NoError(t, err)
	defer cat.Close()

	want := map[goknot.Signature]bool{}
	for L := range libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 2}).Outlet {
		sig, err := L.Sig(true, true)
		require.NoError(t, err)
		if L.NumCrossings() >= 1 {
			want[sig] = true
		}
		_, err = cat.TryAddSig(sig, L.NumCrossings())
		require.NoError(t, err)
	}

	onHit := make(chan goknot.Signature, 16)
	go func() {
		err := cat.Select(goknot.SigSelector{MinCrossings: 1, MaxCrossings: 8}, onHit)
		require.NoError(t, err)
		close(onHit)
	}()

	got := map[goknot.Signature]bool{}
	for sig := range onHit {
		got[sig] = true
	}
	require.Equal(t, want, got)

	// a zero MaxCrossings imposes no upper bound
	unbounded := make(chan goknot.Signature, 16)
	go func() {
		cat.Select(goknot.SigSelector{}, unbounded)
		close(unbounded)
	}()
	all := 0
	for range unbounded {
		all++
	}
	require.Equal(t, int(cat.NumSigs(0)+cat.NumSigs(1)+cat.NumSigs(2)), all)
}
