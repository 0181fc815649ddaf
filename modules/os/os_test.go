package os

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/quickpython"
)

func TestGetenvReturnsNoneForUnsetName(t *testing.T) {
	v, exc := getenv(nil, []quickpython.Value{quickpython.String("QUICKPYTHON_TEST_UNSET_VAR")})
	require.Nil(t, exc)
	require.Equal(t, quickpython.NoneValue, v)
}

func TestGetenvReturnsSetValue(t *testing.T) {
	t.Setenv("QUICKPYTHON_TEST_VAR", "hello")
	v, exc := getenv(nil, []quickpython.Value{quickpython.String("QUICKPYTHON_TEST_VAR")})
	require.Nil(t, exc)
	require.Equal(t, quickpython.String("hello"), v)
}

func TestWriteFileThenReadFileThenExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	_, exc := writeFile(nil, []quickpython.Value{quickpython.String(path), quickpython.String("content")})
	require.Nil(t, exc)

	existsV, exc := exists(nil, []quickpython.Value{quickpython.String(path)})
	require.Nil(t, exc)
	require.Equal(t, quickpython.Bool(true), existsV)

	contents, exc := readFile(nil, []quickpython.Value{quickpython.String(path)})
	require.Nil(t, exc)
	require.Equal(t, quickpython.String("content"), contents)
}

func TestReadFileOnMissingPathRaisesIOException(t *testing.T) {
	_, exc := readFile(nil, []quickpython.Value{quickpython.String("/no/such/path/quickpython")})
	require.NotNil(t, exc)
	require.Equal(t, quickpython.ExceptionIO, exc.Kind)
}

func TestListdirListsEntryNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	v, exc := listdir(nil, []quickpython.Value{quickpython.String(dir)})
	require.Nil(t, exc)
	require.Equal(t, 1, v.(*quickpython.List).Len())
}
