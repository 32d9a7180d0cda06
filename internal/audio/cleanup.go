package audio

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// RemoveWithRetry deletes a temp artifact, retrying a few times because the
// player on some platforms holds the file open a moment after playback.
func RemoveWithRetry(path string, attempts int, backoff time.Duration) error {
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = os.Remove(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		time.Sleep(backoff)
	}
	return err
}
