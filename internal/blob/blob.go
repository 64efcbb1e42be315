// Package blob reads and writes notebook bytes on the local filesystem, in
// S3-compatible object storage, or in memory.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// ErrNotFound is returned (wrapped) when a key does not exist.
var ErrNotFound = errors.New("blob: not found")

// Store is the minimal byte store a patch run needs. Put replaces any
// existing object under key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Driver() Driver
}

// Location is a parsed document location.
type Location struct {
	Driver Driver
	Bucket string // s3 only
	Key    string
}

func (l Location) String() string {
	if l.Driver == DriverS3 {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseLocation accepts "s3://bucket/key", "file://path" or a plain path.
func ParseLocation(s string) (Location, error) {
	if strings.TrimSpace(s) == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", s)
		}
		return Location{Driver: DriverS3, Bucket: bucket, Key: key}, nil
	}
	if rest, ok := strings.CutPrefix(s, "file://"); ok {
		if rest == "" {
			return Location{}, fmt.Errorf("invalid file location %q", s)
		}
		s = rest
	}
	return Location{Driver: DriverFilesystem, Key: s}, nil
}

// Resolve opens the store that serves location and returns the key inside
// it. S3 stores are configured from the environment (see S3ConfigFromEnv).
func Resolve(ctx context.Context, location string) (Store, string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, "", err
	}
	switch loc.Driver {
	case DriverS3:
		st, err := NewS3(ctx, S3ConfigFromEnv(loc.Bucket))
		if err != nil {
			return nil, "", err
		}
		return st, loc.Key, nil
	default:
		return NewFS(""), loc.Key, nil
	}
}
