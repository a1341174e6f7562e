package compare

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/amano41/dircmp/pkg/storage"
	"github.com/amano41/dircmp/pkg/storage/storagetest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelper provides an in-memory left/right pair for comparator tests
type TestHelper struct {
	t       *testing.T
	fs      *storagetest.FaultyFs
	backend storage.Backend
}

// NewTestHelper creates a helper with empty /left and /right directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	fsys := storagetest.NewFaultyFs(afero.NewMemMapFs())
	storagetest.Mkdir(t, fsys, "/", "left", "right")
	return &TestHelper{t: t, fs: fsys, backend: storage.NewLocalFs(fsys)}
}

// Write creates the same-named file on both sides
func (h *TestHelper) Write(name, left, right string) {
	h.t.Helper()
	storagetest.WriteFiles(h.t, h.fs, "/left", map[string]string{name: left})
	storagetest.WriteFiles(h.t, h.fs, "/right", map[string]string{name: right})
}

// Touch sets the modification time on both sides
func (h *TestHelper) Touch(name string, left, right time.Time) {
	h.t.Helper()
	storagetest.SetModTime(h.t, h.fs, "/left", name, left)
	storagetest.SetModTime(h.t, h.fs, "/right", name, right)
}

func (h *TestHelper) compare(c Comparator, name string) *Comparison {
	h.t.Helper()
	res, err := c.Compare(context.Background(), h.backend, "/left/"+name, "/right/"+name)
	require.NoError(h.t, err)
	require.NotNil(h.t, res)
	return res
}

var (
	t0 = time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(-24 * time.Hour)
)

func TestResultConstants(t *testing.T) {
	assert.Equal(t, "same", string(Same))
	assert.Equal(t, "different", string(Different))
	assert.Equal(t, "error", string(Error))
}

func TestMetadataComparator(t *testing.T) {
	h := NewTestHelper(t)
	c := NewMetadataComparator()

	t.Run("IdenticalFiles", func(t *testing.T) {
		h.Write("identical.txt", "identical.txt", "identical.txt")
		h.Touch("identical.txt", t0, t0)
		assert.Equal(t, Same, h.compare(c, "identical.txt").Result)
	})

	t.Run("SameBytesDifferentMtime", func(t *testing.T) {
		h.Write("a.txt", "same bytes", "same bytes")
		h.Touch("a.txt", t0, t1)
		res := h.compare(c, "a.txt")
		assert.Equal(t, Different, res.Result)
		assert.Contains(t, res.Reason, "modification times")
	})

	t.Run("SameSizeAndMtimeDifferentBody", func(t *testing.T) {
		// a metadata comparison cannot see this difference
		h.Write("diff_body.txt", "size and time are the same", "but contents are different")
		h.Touch("diff_body.txt", t0, t0)
		assert.Equal(t, Same, h.compare(c, "diff_body.txt").Result)
	})

	t.Run("DifferentSize", func(t *testing.T) {
		h.Write("diff_body_size.txt", "same timestamp", "different size and contents")
		h.Touch("diff_body_size.txt", t0, t0)
		res := h.compare(c, "diff_body_size.txt")
		assert.Equal(t, Different, res.Result)
		assert.Contains(t, res.Reason, "sizes")
	})

	t.Run("MissingFileIsError", func(t *testing.T) {
		storagetest.WriteFiles(t, h.fs, "/left", map[string]string{"lonely.txt": "x"})
		res := h.compare(c, "lonely.txt")
		assert.Equal(t, Error, res.Result)
		assert.Error(t, res.Error)
	})

	t.Run("DirectoryIsError", func(t *testing.T) {
		storagetest.Mkdir(t, h.fs, "/left", "mixed")
		storagetest.WriteFiles(t, h.fs, "/right", map[string]string{"mixed": "file"})
		assert.Equal(t, Error, h.compare(c, "mixed").Result)
	})

	assert.Equal(t, "shallow", c.Name())
}

func TestBinaryComparator(t *testing.T) {
	h := NewTestHelper(t)
	c := NewBinaryComparator(4096)

	t.Run("SameBytesDifferentMtime", func(t *testing.T) {
		h.Write("a.txt", "same bytes", "same bytes")
		h.Touch("a.txt", t0, t1)
		assert.Equal(t, Same, h.compare(c, "a.txt").Result)
	})

	t.Run("SameSizeDifferentBody", func(t *testing.T) {
		h.Write("diff_body_time.txt", "this is file1", "this is file2")
		res := h.compare(c, "diff_body_time.txt")
		assert.Equal(t, Different, res.Result)
		assert.Contains(t, res.Reason, "offset 12")
	})

	t.Run("DifferentSize", func(t *testing.T) {
		h.Write("sizes.txt", "short", "much longer")
		assert.Equal(t, Different, h.compare(c, "sizes.txt").Result)
	})

	t.Run("EmptyFiles", func(t *testing.T) {
		h.Write("empty.txt", "", "")
		assert.Equal(t, Same, h.compare(c, "empty.txt").Result)
	})

	t.Run("LargeFilesDifferInLastChunk", func(t *testing.T) {
		body := strings.Repeat("0123456789", 2000)
		h.Write("large.bin", body+"A", body+"B")
		res := h.compare(c, "large.bin")
		assert.Equal(t, Different, res.Result)
		assert.Contains(t, res.Reason, "offset 20000")
	})

	t.Run("LargeIdenticalFiles", func(t *testing.T) {
		body := strings.Repeat("x", 3*4096)
		h.Write("exact.bin", body, body)
		res := h.compare(c, "exact.bin")
		assert.Equal(t, Same, res.Result)
		assert.Contains(t, res.Reason, "12288 bytes")
	})

	t.Run("OpenFailureIsError", func(t *testing.T) {
		h.Write("locked.txt", "abc", "abc")
		h.fs.FailOpen("/right/locked.txt", os.ErrPermission)
		res := h.compare(c, "locked.txt")
		assert.Equal(t, Error, res.Result)
		assert.ErrorIs(t, res.Error, os.ErrPermission)
	})

	t.Run("ReadFailureIsError", func(t *testing.T) {
		h.Write("broken.txt", "abc", "abc")
		h.fs.FailRead("/left/broken.txt", os.ErrPermission)
		res := h.compare(c, "broken.txt")
		assert.Equal(t, Error, res.Result)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Compare(ctx, h.backend, "/left/a.txt", "/right/a.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, "full", c.Name())
}

func TestNew(t *testing.T) {
	assert.IsType(t, &MetadataComparator{}, New(true, 0))
	assert.IsType(t, &BinaryComparator{}, New(false, 0))
	assert.Equal(t, 4096, NewBinaryComparator(10).bufferSize)
}
