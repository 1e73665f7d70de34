package product

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const productsBucket = "products"

// DB defines the interface for database operations
type DB interface {
	// SaveProduct inserts or replaces a product
	SaveProduct(product *Product) error

	// GetProduct retrieves a product by ID, or ErrNotFound
	GetProduct(id string) (*Product, error)

	// ListProducts returns all products in key order
	ListProducts() ([]*Product, error)

	// DeleteProduct removes a product, or returns ErrNotFound
	DeleteProduct(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the database file at path
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(productsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) SaveProduct(product *Product) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(product)
		if err != nil {
			return fmt.Errorf("marshaling product: %w", err)
		}
		return tx.Bucket([]byte(productsBucket)).Put([]byte(product.ID), data)
	})
}

func (b *BoltDB) GetProduct(id string) (*Product, error) {
	var product Product
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(productsBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (b *BoltDB) ListProducts() ([]*Product, error) {
	products := make([]*Product, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(productsBucket)).ForEach(func(k, v []byte) error {
			var product Product
			if err := json.Unmarshal(v, &product); err != nil {
				return fmt.Errorf("unmarshaling product %s: %w", k, err)
			}
			products = append(products, &product)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (b *BoltDB) DeleteProduct(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(productsBucket))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
