package kv

import (
	"fmt"
	"os"
	"path/filepath"
)

func ExampleNewSnapshot() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("failed to create folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	db, err := New(filepath.Join(dir, "example.db"))
	if err != nil {
		panic("failed to open db: " + err.Error())
	}

	defer db.Close()

	err = db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate([]byte("example_bucket"))
		if err != nil {
			return err
		}

		return NewSnapshot(bucket).Set([]byte("count"), []byte("42"))
	})
	if err != nil {
		panic("database write failed: " + err.Error())
	}

	err = db.View(func(tx ReadableTx) error {
		value, err := NewReadable(tx.GetBucket([]byte("example_bucket"))).Get([]byte("count"))
		if err != nil {
			return err
		}

		fmt.Printf("count=%s\n", value)

		return nil
	})
	if err != nil {
		panic("database read failed: " + err.Error())
	}

	// Output: count=42
}
