package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/domain"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

func sha256Of(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func writeDist(t *testing.T, fsys *fsbilly.FS, files map[string]string) {
	t.Helper()

	for path, content := range files {
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScan(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeDist(t, fsys, map[string]string{
		"dist/widget-2.3.0.tar.gz":           "sdist bytes",
		"dist/widget-2.3.0-py3-none-any.whl": "wheel bytes",
		"dist/notes.txt":                     "extra",
	})

	set, err := Scan(fsys, "dist")
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())

	artifacts := set.Artifacts()
	assert.Equal(t, []string{
		"notes.txt",
		"widget-2.3.0-py3-none-any.whl",
		"widget-2.3.0.tar.gz",
	}, set.Names())

	assert.Equal(t, domain.ArtifactTypePackage, artifacts[0].Type)
	assert.Equal(t, domain.ArtifactTypeWheel, artifacts[1].Type)
	assert.Equal(t, domain.ArtifactTypeSDist, artifacts[2].Type)

	wheel := artifacts[1]
	assert.Equal(t, "dist/widget-2.3.0-py3-none-any.whl", wheel.Path)
	assert.Equal(t, int64(len("wheel bytes")), wheel.Size)
	assert.Equal(t, sha256Of("wheel bytes"), wheel.Digest)
}

func TestScan_MissingDirectory(t *testing.T) {
	set, err := Scan(fsbilly.NewInMemoryFS(), "dist")
	require.NoError(t, err)

	assert.True(t, set.Empty())
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, "dist", set.Dir())
}

func TestScan_SkipsSubdirsAndDotfiles(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeDist(t, fsys, map[string]string{
		"dist/widget-2.3.0.tar.gz": "sdist bytes",
		"dist/.build-meta":         "hidden",
		"dist/cache/partial.whl":   "nested",
	})

	set, err := Scan(fsys, "dist")
	require.NoError(t, err)

	assert.Equal(t, []string{"widget-2.3.0.tar.gz"}, set.Names())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want domain.ArtifactType
	}{
		{name: "widget-2.3.0-py3-none-any.whl", want: domain.ArtifactTypeWheel},
		{name: "WIDGET-2.3.0.WHL", want: domain.ArtifactTypeWheel},
		{name: "widget-2.3.0.tar.gz", want: domain.ArtifactTypeSDist},
		{name: "widget-2.3.0.zip", want: domain.ArtifactTypeArchive},
		{name: "widget-2.3.0.egg", want: domain.ArtifactTypePackage},
		{name: "checksums.txt", want: domain.ArtifactTypePackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestSet_Accessors(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeDist(t, fsys, map[string]string{
		"dist/a.whl":    "aaaa",
		"dist/b.tar.gz": "bbbbbb",
	})

	set, err := Scan(fsys, "dist")
	require.NoError(t, err)

	assert.Equal(t, int64(10), set.TotalSize())
	assert.Equal(t, "2 artifacts in dist: a.whl, b.tar.gz", set.String())

	// Mutating the returned slice must not affect the set.
	artifacts := set.Artifacts()
	artifacts[0].Name = "mutated"
	assert.Equal(t, []string{"a.whl", "b.tar.gz"}, set.Names())
}

func TestSet_EmptyString(t *testing.T) {
	set, err := Scan(fsbilly.NewInMemoryFS(), "dist")
	require.NoError(t, err)

	assert.Equal(t, "no artifacts in dist", set.String())
}
