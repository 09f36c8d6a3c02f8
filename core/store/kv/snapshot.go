package kv

import "go.dedis.ch/cwcounter/core/store"

// bucketReadable exposes a bucket as a readable store. A nil bucket is an
// empty store.
//
// - implements store.Readable
type bucketReadable struct {
	bucket Bucket
}

// NewReadable returns a readable store backed by the bucket. The bucket can be
// nil when it does not exist yet.
func NewReadable(bucket Bucket) store.Readable {
	return bucketReadable{bucket: bucket}
}

// Get implements store.Readable. The value is copied as it is only valid
// during the transaction.
func (r bucketReadable) Get(key []byte) ([]byte, error) {
	if r.bucket == nil {
		return nil, nil
	}

	value := r.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// bucketSnapshot exposes a bucket as a store snapshot.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucketReadable
}

// NewSnapshot returns a snapshot that reads and writes the bucket.
func NewSnapshot(bucket Bucket) store.Snapshot {
	return bucketSnapshot{
		bucketReadable: bucketReadable{bucket: bucket},
	}
}

// Set implements store.Writable.
func (s bucketSnapshot) Set(key, value []byte) error {
	return s.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (s bucketSnapshot) Delete(key []byte) error {
	return s.bucket.Delete(key)
}
