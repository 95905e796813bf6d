package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sourcesBucket  = []byte("sources")
	articlesBucket = []byte("articles")
	seenBucket     = []byte("seen")
	prefsBucket    = []byte("prefs")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{sourcesBucket, articlesBucket, seenBucket, prefsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveSource(src *Source) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		data, err := json.Marshal(src)
		if err != nil {
			return err
		}
		return b.Put([]byte(src.ID), data)
	})
}

func (s *Store) GetSource(id string) (*Source, error) {
	var src Source
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("source not found")
		}
		return json.Unmarshal(data, &src)
	})
	return &src, err
}

func (s *Store) GetAllSources() ([]*Source, error) {
	var sources []*Source
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var src Source
			if err := json.Unmarshal(v, &src); err != nil {
				return err
			}
			sources = append(sources, &src)
			return nil
		})
	})
	sort.Slice(sources, func(i, j int) bool {
		ti := sources[i].Title
		tj := sources[j].Title
		if ti == "" {
			ti = sources[i].URL
		}
		if tj == "" {
			tj = sources[j].URL
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	})
	return sources, err
}

// SaveArticles persists articles, skipping any whose URL hash has been seen
// before. Returns the number of articles actually added.
func (s *Store) SaveArticles(articles []*Article) (int, error) {
	added := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		seen := tx.Bucket(seenBucket)
		for _, article := range articles {
			if article.URLHash != "" && seen.Get([]byte(article.URLHash)) != nil {
				continue
			}
			data, err := json.Marshal(article)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(article.ID), data); err != nil {
				return err
			}
			if article.URLHash != "" {
				if err := seen.Put([]byte(article.URLHash), []byte{1}); err != nil {
					return err
				}
			}
			added++
		}
		return nil
	})
	return added, err
}

// UpdateArticle overwrites an existing article, bypassing dedup. Used by the
// enhancement pass to write summaries and tags back.
func (s *Store) UpdateArticle(article *Article) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		return b.Put([]byte(article.ID), data)
	})
}

func (s *Store) GetArticles(sourceID string, limit int) ([]*Article, error) {
	var articles []*Article
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if sourceID == "" || article.SourceID == sourceID {
				articles = append(articles, &article)
			}
			return nil
		})
	})
	// Newest first; this is the order the browse page preserves.
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, err
}

func (s *Store) GetAllArticles() ([]*Article, error) {
	return s.GetArticles("", 0)
}

func (s *Store) DeleteSource(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(sourcesBucket).Delete([]byte(id)); err != nil {
			return err
		}

		c := tx.Bucket(articlesBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				continue
			}
			if article.SourceID == id {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// BoolPref reads a boolean preference. The second return reports whether a
// usable value was present; corrupt or missing values come back as unset.
func (s *Store) BoolPref(key string) (bool, bool) {
	var value bool
	var ok bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(prefsBucket).Get([]byte(key))
		switch string(data) {
		case "1":
			value, ok = true, true
		case "0":
			value, ok = false, true
		}
		return nil
	})
	return value, ok
}

func (s *Store) SetBoolPref(key string, value bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data := []byte("0")
		if value {
			data = []byte("1")
		}
		return tx.Bucket(prefsBucket).Put([]byte(key), data)
	})
}
