package search

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine opens or creates a Bleve index at indexPath and indexes the
// current articles.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	_ = os.MkdirAll(filepath.Dir(indexPath), 0o755)

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	summary := bleve.NewTextFieldMapping()
	summary.Analyzer = standard.Name
	summary.Store = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = true

	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name
	content.Store = false

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = standard.Name
	tags.Store = true

	sourceLabel := bleve.NewTextFieldMapping()
	sourceLabel.Analyzer = standard.Name
	sourceLabel.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("summary", summary)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("content", content)
	dm.AddFieldMappingsAt("tags", tags)
	dm.AddFieldMappingsAt("source_label", sourceLabel)

	im.DefaultMapping = dm
	return im
}

func articleDoc(a *storage.Article) map[string]any {
	tagKeys := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tagKeys = append(tagKeys, t.Key)
	}
	return map[string]any{
		"article_id":   a.ID,
		"source_id":    a.SourceID,
		"source_label": a.SourceLabel,
		"title":        a.Title,
		"summary":      a.Summary,
		"description":  a.Description,
		"content":      a.Content,
		"tags":         strings.Join(tagKeys, " "),
	}
}

func (b *bleveEngine) reindexAll() error {
	articles, err := b.store.GetAllArticles()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, a := range articles {
		if err := batch.Index(a.ID, articleDoc(a)); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

// Search runs a boosted disjunction over the indexed fields. Queries shorter
// than two characters return nothing.
func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qsm := bleve.NewMatchQuery(tok)
		qsm.SetField("summary")
		qsm.SetBoost(3.0)
		qs = append(qs, qsm)

		qg := bleve.NewMatchQuery(tok)
		qg.SetField("tags")
		qg.SetBoost(2.5)
		qs = append(qs, qg)

		qd := bleve.NewMatchQuery(tok)
		qd.SetField("description")
		qd.SetBoost(2.0)
		qs = append(qs, qd)

		qc := bleve.NewMatchQuery(tok)
		qc.SetField("content")
		qc.SetBoost(1.0)
		qs = append(qs, qc)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"title", "summary", "description", "source_label", "source_id"}

	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		a := &storage.Article{ID: h.ID}
		if t, ok := h.Fields["title"].(string); ok {
			a.Title = t
		}
		if s, ok := h.Fields["summary"].(string); ok {
			a.Summary = s
		}
		if d, ok := h.Fields["description"].(string); ok {
			a.Description = d
		}
		if l, ok := h.Fields["source_label"].(string); ok {
			a.SourceLabel = l
		}
		if sid, ok := h.Fields["source_id"].(string); ok {
			a.SourceID = sid
		}
		out = append(out, &Result{Article: a, Score: h.Score})
	}
	return out, nil
}

// OnDataUpdated indexes new or changed articles.
func (b *bleveEngine) OnDataUpdated(articles []*storage.Article) {
	batch := b.idx.NewBatch()
	for _, a := range articles {
		_ = batch.Index(a.ID, articleDoc(a))
	}
	_ = b.idx.Batch(batch)
}

// OnSourceDeleted removes every indexed article belonging to the source.
func (b *bleveEngine) OnSourceDeleted(sourceID string) {
	tq := bleve.NewTermQuery(sourceID)
	tq.SetField("source_id")

	from := 0
	size := 1000
	for {
		req := bleve.NewSearchRequestOptions(tq, size, from, false)
		res, err := b.idx.Search(req)
		if err != nil || res == nil || len(res.Hits) == 0 {
			break
		}
		for _, h := range res.Hits {
			_ = b.idx.Delete(h.ID)
		}
		if len(res.Hits) < size {
			break
		}
	}
}

// DocCount reports the number of indexed documents.
func (b *bleveEngine) DocCount() (int, error) {
	q := bleve.NewMatchAllQuery()
	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return 0, err
	}
	return int(res.Total), nil
}
