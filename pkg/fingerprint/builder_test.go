package fingerprint

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"testing"

	"github.com/amano41/dircmp/pkg/filter"
	"github.com/amano41/dircmp/pkg/models"
	"github.com/amano41/dircmp/pkg/storage"
	"github.com/amano41/dircmp/pkg/storage/storagetest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) Fingerprint {
	sum := md5.Sum([]byte(s))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

func newFs(t *testing.T, root string, files map[string]string) *storagetest.FaultyFs {
	t.Helper()
	fsys := storagetest.NewFaultyFs(afero.NewMemMapFs())
	storagetest.Mkdir(t, fsys, root, ".")
	storagetest.WriteFiles(t, fsys, root, files)
	return fsys
}

func build(t *testing.T, fsys afero.Fs, root string, cfg BuilderConfig) (*Table, error) {
	t.Helper()
	return NewBuilder(storage.NewLocalFs(fsys), cfg, nil).Build(context.Background(), root)
}

func TestBuildGroupsByContent(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{
		"a.txt":         "hello",
		"sub/b.txt":     "hello",
		"sub/c.txt":     "world",
		"sub/deep/d.md": "",
	})

	tbl, err := build(t, fsys, "/tree", BuilderConfig{})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 4, tbl.FileCount())

	files, ok := tbl.Files(md5Hex("hello"))
	require.True(t, ok)
	assert.Equal(t, []string{"/tree/a.txt", "/tree/sub/b.txt"}, files)
	assert.Equal(t, Fingerprint("5d41402abc4b2a76b9719d911017c592"), md5Hex("hello"))

	assert.True(t, tbl.Has(md5Hex("")))
	assert.Empty(t, tbl.Skipped)
}

func TestBuildAlgorithm(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{"a.txt": "hello"})
	algo, err := Lookup("sha256")
	require.NoError(t, err)

	tbl, err := build(t, fsys, "/tree", BuilderConfig{Algorithm: algo})
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("hello"))
	assert.True(t, tbl.Has(Fingerprint(hex.EncodeToString(sum[:]))))
}

func TestBuildLargeFileInChunks(t *testing.T) {
	body := make([]byte, 100*1024+17)
	for i := range body {
		body[i] = byte(i % 251)
	}
	fsys := newFs(t, "/tree", map[string]string{"big.bin": string(body)})

	tbl, err := build(t, fsys, "/tree", BuilderConfig{BufferSize: 4096})
	require.NoError(t, err)
	assert.True(t, tbl.Has(md5Hex(string(body))))
}

func TestBuildNotADirectory(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{"file.txt": "x"})

	_, err := build(t, fsys, "/tree/file.txt", BuilderConfig{})
	assert.ErrorIs(t, err, models.ErrNotADirectory)

	_, err = build(t, fsys, "/missing", BuilderConfig{})
	assert.ErrorIs(t, err, models.ErrNotADirectory)
}

func TestBuildUnreadable(t *testing.T) {
	files := map[string]string{
		"a.txt":      "a",
		"locked.txt": "secret",
		"z.txt":      "z",
	}

	t.Run("SkipContinues", func(t *testing.T) {
		fsys := newFs(t, "/tree", files)
		fsys.FailOpen("/tree/locked.txt", os.ErrPermission)

		tbl, err := build(t, fsys, "/tree", BuilderConfig{Workers: 3})
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.FileCount())
		require.Len(t, tbl.Skipped, 1)
		assert.Equal(t, "/tree/locked.txt", tbl.Skipped[0].Path)
		assert.ErrorIs(t, tbl.Skipped[0].Err, models.ErrUnreadable)
	})

	t.Run("StrictAborts", func(t *testing.T) {
		fsys := newFs(t, "/tree", files)
		fsys.FailRead("/tree/locked.txt", os.ErrPermission)

		tbl, err := build(t, fsys, "/tree", BuilderConfig{Workers: 2, OnUnreadable: StrictUnreadable})
		assert.Nil(t, tbl)
		assert.ErrorIs(t, err, models.ErrUnreadable)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("StrictReportsFirstFailure", func(t *testing.T) {
		many := make(map[string]string)
		for i := 0; i < 20; i++ {
			many[fmt.Sprintf("f%02d.txt", i)] = fmt.Sprintf("content %d", i)
		}

		for _, workers := range []int{1, 2, 8} {
			fsys := newFs(t, "/tree", many)
			fsys.FailRead("/tree/f05.txt", os.ErrPermission)
			fsys.FailRead("/tree/f12.txt", os.ErrPermission)
			fsys.FailRead("/tree/f17.txt", os.ErrPermission)

			_, err := build(t, fsys, "/tree", BuilderConfig{Workers: workers, OnUnreadable: StrictUnreadable})
			var pathErr *models.PathError
			require.ErrorAs(t, err, &pathErr)
			assert.Equal(t, "/tree/f05.txt", pathErr.Path, "workers=%d", workers)
		}
	})

	t.Run("UnlistableDirectory", func(t *testing.T) {
		fsys := newFs(t, "/tree", map[string]string{"ok.txt": "ok", "private/x.txt": "x"})
		fsys.FailOpen("/tree/private", os.ErrPermission)

		tbl, err := build(t, fsys, "/tree", BuilderConfig{})
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.FileCount())
		require.Len(t, tbl.Skipped, 1)
		assert.Equal(t, "/tree/private", tbl.Skipped[0].Path)

		_, err = build(t, fsys, "/tree", BuilderConfig{OnUnreadable: StrictUnreadable})
		assert.ErrorIs(t, err, models.ErrUnreadable)
	})
}

func TestBuildExclude(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{
		"keep.txt":      "keep",
		"scratch.tmp":   "tmp",
		".git/HEAD":     "ref",
		"sub/other.tmp": "tmp2",
	})

	tbl, err := build(t, fsys, "/tree", BuilderConfig{Exclude: filter.New([]string{"*.tmp", ".git/"})})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.FileCount())
	assert.True(t, tbl.Has(md5Hex("keep")))
}

func TestBuildExcludeDirectoryName(t *testing.T) {
	fsys := newFs(t, "/l", map[string]string{
		"keep.txt":                "keep",
		"node_modules/x.js":       "x",
		"src/node_modules/y/y.js": "y",
		"src/app.d/conf":          "conf",
		"src/main.go":             "main",
	})

	tbl, err := build(t, fsys, "/l", BuilderConfig{Exclude: filter.New([]string{"node_modules", "*.d"})})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.FileCount())
	assert.True(t, tbl.Has(md5Hex("keep")))
	assert.True(t, tbl.Has(md5Hex("main")))
	assert.False(t, tbl.Has(md5Hex("x")))
	assert.False(t, tbl.Has(md5Hex("y")))
	assert.False(t, tbl.Has(md5Hex("conf")))
}

func TestBuildIsDeterministic(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 60; i++ {
		files[fmt.Sprintf("d%d/f%02d.txt", i%4, i)] = fmt.Sprintf("content %d", i%7)
	}
	fsys := newFs(t, "/tree", files)

	first, err := build(t, fsys, "/tree", BuilderConfig{Workers: 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 8} {
		again, err := build(t, fsys, "/tree", BuilderConfig{Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, first.Fingerprints(), again.Fingerprints())
		for _, fp := range first.Fingerprints() {
			want, _ := first.Files(fp)
			got, _ := again.Files(fp)
			assert.Equal(t, want, got)
		}
	}
}

func TestBuildProgress(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{"a": "1", "b": "2", "c": "3"})

	var calls []int
	b := NewBuilder(storage.NewLocalFs(fsys), BuilderConfig{Workers: 1}, nil)
	b.SetProgressCallback(func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	})

	_, err := b.Build(context.Background(), "/tree")
	require.NoError(t, err)
	sort.Ints(calls)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestBuildCancelled(t *testing.T) {
	fsys := newFs(t, "/tree", map[string]string{"a": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(storage.NewLocalFs(fsys), BuilderConfig{}, nil).Build(ctx, "/tree")
	assert.Error(t, err)
}

// a tree compared against itself and against another tree, as the two
// pipelines of the hashcmp command see it
func TestCrossTreeScenarios(t *testing.T) {
	left := newFs(t, "/left", map[string]string{"x.txt": "only here", "shared.txt": "shared"})
	storagetest.WriteFiles(t, left, "/right", map[string]string{"copy.txt": "shared"})

	l, err := build(t, left, "/left", BuilderConfig{})
	require.NoError(t, err)
	r, err := build(t, left, "/right", BuilderConfig{})
	require.NoError(t, err)

	leftOnly := LeftOnly(l, r)
	require.Len(t, leftOnly, 1)
	assert.Equal(t, md5Hex("only here"), leftOnly[0].Fingerprint)
	assert.Equal(t, []string{"/left/x.txt"}, leftOnly[0].Files)

	dups := Duplicates(l, r)
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"/right/copy.txt"}, dups[0].Right)

	self := newFs(t, "/self", map[string]string{"one.txt": "twin", "two.txt": "twin", "three.txt": "solo"})
	s, err := build(t, self, "/self", BuilderConfig{})
	require.NoError(t, err)
	within := DuplicatesWithin(s)
	require.Len(t, within, 1)
	assert.Equal(t, []string{"/self/one.txt", "/self/two.txt"}, within[0].Files)
}

func TestLookup(t *testing.T) {
	for _, name := range Algorithms() {
		algo, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, algo.New())
	}
	_, err := Lookup("crc32")
	assert.Error(t, err)
	assert.Equal(t, []string{"md5", "sha1", "sha256", "sha3-256", "sha512"}, Algorithms())
}
