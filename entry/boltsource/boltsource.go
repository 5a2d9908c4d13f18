// Package boltsource backs an entry.Source with a bbolt database. Each
// top-level key of the tree is one document in a single bucket, stored
// YAML-encoded; operations below a top-level key load that document
// only, so unrelated documents are never decoded.
package boltsource

import (
	"fmt"
	"iter"

	"github.com/goccy/go-yaml"
	bolt "go.etcd.io/bbolt"

	"github.com/htree-dev/go-htree/entry"
	"github.com/htree-dev/go-htree/hpath"
	"github.com/htree-dev/go-htree/ir"
)

var bucketName = []byte("documents")

type Source struct {
	db *bolt.DB
}

// Open opens or creates the database at file.
func Open(file string) (*Source, error) {
	db, err := bolt.Open(file, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entry.ErrUnavailable, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", entry.ErrUnavailable, err)
	}
	return &Source{db: db}, nil
}

func decodeDoc(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, fmt.Errorf("%w: corrupt document: %v", entry.ErrUnavailable, err)
	}
	return ir.FromAny(v)
}

func encodeDoc(n *ir.Node) ([]byte, error) {
	return yaml.Marshal(ir.ToAny(n))
}

// loadDoc returns the document for a top-level key, or Absent.
func (s *Source) loadDoc(key string) (*ir.Node, error) {
	var doc *ir.Node
	err := s.db.View(func(tx *bolt.Tx) error {
		d := tx.Bucket(bucketName).Get([]byte(key))
		if d == nil {
			doc = ir.Absent()
			return nil
		}
		var err error
		doc, err = decodeDoc(d)
		return err
	})
	return doc, err
}

func (s *Source) storeDoc(key string, doc *ir.Node) error {
	d, err := encodeDoc(doc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), d)
	})
}

// assemble loads every document into one mapping node.
func (s *Source) assemble() (*ir.Node, error) {
	var kvs []ir.KeyVal
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			doc, err := decodeDoc(v)
			if err != nil {
				return err
			}
			kvs = append(kvs, ir.KeyVal{Key: string(k), Val: doc})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ir.FromKeyVals(kvs), nil
}

func (s *Source) Find(p hpath.Path) (*ir.Node, error) {
	if key, rest, ok := docKey(p); ok {
		doc, err := s.loadDoc(key)
		if err != nil {
			return nil, err
		}
		return hpath.Find(doc, rest), nil
	}
	root, err := s.assemble()
	if err != nil {
		return nil, err
	}
	return hpath.Find(root, p), nil
}

func (s *Source) Search(p hpath.Path) (iter.Seq[*ir.Node], error) {
	if key, _, ok := docKey(p); ok {
		doc, err := s.loadDoc(key)
		if err != nil {
			return nil, err
		}
		// anchor the document under its key so every match carries its
		// full position from the store root in its parent chain
		root := ir.FromKeyVals([]ir.KeyVal{{Key: key, Val: doc}})
		return hpath.Search(root, p), nil
	}
	root, err := s.assemble()
	if err != nil {
		return nil, err
	}
	return hpath.Search(root, p), nil
}

func (s *Source) Update(p hpath.Path, v *ir.Node) error {
	key, rest, ok := docKey(p)
	if !ok {
		if len(p) == 0 && v.Type == ir.MapType {
			for i := range v.Fields {
				if err := s.storeDoc(v.Fields[i].String, v.Values[i]); err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("%w: update wants a top-level document key, got %s",
			entry.ErrUnsupported, p)
	}
	doc, err := s.loadDoc(key)
	if err != nil {
		return err
	}
	doc, err = hpath.Update(doc, rest, v)
	if err != nil {
		return err
	}
	return s.storeDoc(key, doc)
}

func (s *Source) Delete(p hpath.Path) (bool, error) {
	key, rest, ok := docKey(p)
	if !ok {
		return false, fmt.Errorf("%w: delete wants a top-level document key, got %s",
			entry.ErrUnsupported, p)
	}
	if len(rest) == 0 {
		removed := false
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketName)
			if b.Get([]byte(key)) == nil {
				return nil
			}
			removed = true
			return b.Delete([]byte(key))
		})
		return removed, err
	}
	doc, err := s.loadDoc(key)
	if err != nil {
		return false, err
	}
	if ir.IsAbsent(doc) {
		return false, nil
	}
	removed := hpath.Delete(doc, rest)
	if !removed {
		return false, nil
	}
	return true, s.storeDoc(key, doc)
}

func (s *Source) Close() error {
	return s.db.Close()
}

// docKey splits off a leading mapping key addressing one document.
func docKey(p hpath.Path) (string, hpath.Path, bool) {
	if len(p) > 0 && p[0].Kind == hpath.KindRoot {
		p = p[1:]
	}
	if len(p) == 0 || p[0].Kind != hpath.KindKey {
		return "", nil, false
	}
	return p[0].Key, p[1:], true
}

func init() {
	entry.Register(&entry.SourceFactory{
		Protocol: "bolt",
		New: func(cfg *entry.Config) (entry.Source, error) {
			file := cfg.URI.Path
			if cfg.URI.Authority != "" {
				file = cfg.URI.Authority + cfg.URI.Path
			}
			return Open(file)
		},
	})
}
