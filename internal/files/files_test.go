package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.bin")

	err := WriteFile(filename, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFile_RemovesPartialFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.bin")
	boom := errors.New("connection reset")

	err := WriteFile(filename, func(w io.Writer) error {
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(filename)
	assert.True(t, os.IsNotExist(statErr), "partial file should be removed")
}

func TestWriteFile_RemovesPartialFileOnPanic(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.bin")

	assert.PanicsWithValue(t, "stream aborted", func() {
		WriteFile(filename, func(w io.Writer) error {
			if _, err := w.Write([]byte("partial")); err != nil {
				return err
			}
			panic("stream aborted")
		})
	})

	_, statErr := os.Stat(filename)
	assert.True(t, os.IsNotExist(statErr), "partial file should be removed")
}

func TestWriteFile_CreateError(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing", "out.bin")

	called := false
	err := WriteFile(filename, func(w io.Writer) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
