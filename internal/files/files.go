package files

import (
	"errors"
	"io"
	"os"
)

// WriteFile creates filename and hands it to write. If write fails or
// panics, or the final close fails, the partially written file is removed.
// A panic is re-raised after the cleanup.
func WriteFile(filename string, write func(w io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			file.Close()
			os.Remove(file.Name())
			panic(r)
		}
		if err != nil {
			if rmErr := os.Remove(file.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = errors.Join(err, rmErr)
			}
		}
	}()

	if err = write(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
