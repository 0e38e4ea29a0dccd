package dataset

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPath is the dataset read when no path is configured.
const DefaultPath = "data/diabetes_dataset.csv"

// Loader reads datasets from local paths and s3:// URLs.
type Loader struct {
	// S3 serves s3:// paths. When nil a client is built from the default AWS
	// configuration on first use.
	S3 ObjectGetter
}

// Load reads the whole source into memory and parses it.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()

	data, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}

	ds, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Int("rows", ds.Len()).
		Int("columns", len(ds.Columns())).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return ds, nil
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, s3Scheme) {
		if l.S3 == nil {
			client, err := newS3Client(ctx)
			if err != nil {
				return nil, &LoadError{Path: path, Err: err}
			}
			l.S3 = client
		}
		return readS3(ctx, l.S3, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return data, nil
}

// Load reads a dataset with a zero Loader.
func Load(ctx context.Context, path string) (*Dataset, error) {
	return (&Loader{}).Load(ctx, path)
}
