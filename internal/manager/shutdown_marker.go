package manager

import (
	"errors"
	"os"
)

func writeShutdownMarker(path string) error {
	return os.WriteFile(path, []byte{}, 0o644)
}

func shutdownMarkerExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func removeShutdownMarker(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
