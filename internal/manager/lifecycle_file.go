package manager

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// lifecycleRecord is the JSON body of the lifecycle file. Its presence
// next to the database file, naming a live process, is the ground
// truth for "is a manager running on this host?".
type lifecycleRecord struct {
	PID       int       `json:"pid"`
	Workers   int       `json:"workers"`
	StartedAt time.Time `json:"started_at"`
}

func writeLifecycleFile(path string, rec lifecycleRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readLifecycleFile(path string) (*lifecycleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var rec lifecycleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func removeLifecycleFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

