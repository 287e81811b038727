package search

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"

	"recruitbase/article"
	"recruitbase/client/es"
)

const ArticleIndexName = "articles"

var (
	IndexArticleFunc   = IndexArticle
	RemoveArticleFunc  = RemoveArticle
	SearchArticlesFunc = SearchArticles
)

// ArticleDocument is the indexed projection of a published article.
type ArticleDocument struct {
	ID      types.ID `json:"id"`
	Titre   string   `json:"titre"`
	Slug    string   `json:"slug"`
	Resume  string   `json:"resume"`
	Contenu string   `json:"contenu,omitempty"`
	Tags    []string `json:"tags"`
}

// Enabled reports whether an Elasticsearch endpoint is configured; without
// one the public search degrades to unavailable instead of failing requests.
func Enabled() bool {
	return os.Getenv("ELASTICSEARCH_URL") != ""
}

func IndexArticle(a article.Article) {
	if !Enabled() {
		return
	}
	doc := ArticleDocument{ID: a.ID, Titre: a.Titre, Slug: a.Slug, Resume: a.Resume, Contenu: a.Contenu}
	for _, t := range a.Tags {
		doc.Tags = append(doc.Tags, t.Libelle)
	}
	if err := es.IndexFunc(context.Background(), ArticleIndexName, a.ID, doc); err != nil {
		logrus.Warnf("failed to index article %v: %v", a.ID, err)
	}
}

func RemoveArticle(id types.ID) {
	if !Enabled() {
		return
	}
	if err := es.DeleteDocumentByIdFunc(context.Background(), ArticleIndexName, id); err != nil {
		logrus.Warnf("failed to remove article %v from index: %v", id, err)
	}
}

// SearchArticles runs a full-text query over titre, tag labels, resume and
// body text. The body is searched but excluded from the returned source to
// keep response payloads small.
func SearchArticles(ctx context.Context, term string, size int) ([]ArticleDocument, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	query := es.H{
		"size":    size,
		"_source": es.H{"excludes": []string{"contenu"}},
		"query": es.H{
			"multi_match": es.H{
				"query":  term,
				"fields": []string{"titre^3", "tags^2", "resume", "contenu"},
			},
		},
	}
	r, err := es.SearchFunc(ctx, ArticleIndexName, query)
	if err != nil {
		return nil, err
	}

	docs := make([]ArticleDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := ArticleDocument{}
		if err := json.Unmarshal([]byte(hit.Source), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
