package proteomisc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

const gsPrefix = "gs://"

// IsGoogleStorage reports whether p is a gs://bucket/object path.
func IsGoogleStorage(p string) bool {
	return strings.HasPrefix(p, gsPrefix)
}

func splitGoogleStoragePath(p string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(p, gsPrefix), "/", 2)
	if len(pathParts) != 2 {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenInput opens a local file, or a Google Storage object if p begins with
// gs:// and client is non-nil.
func OpenInput(ctx context.Context, p string, client *storage.Client) (io.ReadCloser, error) {
	if client != nil && IsGoogleStorage(p) {
		bucketName, objectName, err := splitGoogleStoragePath(p)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", p, err))
		}

		return rdr, nil
	}

	if IsGoogleStorage(p) {
		return nil, pfx.Err(fmt.Errorf("%s: a storage client is required to read from Google Storage", p))
	}

	return os.Open(ExpandHome(p))
}

// Glob returns the paths matching pattern, sorted lexically. A gs:// pattern
// lists the bucket under the pattern's literal prefix and filters the object
// names with path.Match; it requires a non-nil client.
func Glob(ctx context.Context, pattern string, client *storage.Client) ([]string, error) {
	if !IsGoogleStorage(pattern) {
		matches, err := filepath.Glob(ExpandHome(pattern))
		if err != nil {
			return nil, pfx.Err(err)
		}
		sort.Strings(matches)
		return matches, nil
	}

	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a storage client is required to list Google Storage", pattern))
	}

	bucketName, objectPattern, err := splitGoogleStoragePath(pattern)
	if err != nil {
		return nil, err
	}

	// Everything before the first glob metacharacter can be used as a
	// server-side prefix.
	prefix := objectPattern
	if i := strings.IndexAny(objectPattern, `*?[\`); i >= 0 {
		prefix = objectPattern[:i]
	}

	out := make([]string, 0)
	it := client.Bucket(bucketName).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		matched, err := path.Match(objectPattern, attrs.Name)
		if err != nil {
			return nil, pfx.Err(err)
		}
		if matched {
			out = append(out, gsPrefix+bucketName+"/"+attrs.Name)
		}
	}
	sort.Strings(out)

	return out, nil
}
