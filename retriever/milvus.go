package retriever

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/embedding"
	"github.com/tenwave/medassist/schema"
)

// Collection field names used by the milvus backend. The corpus schema
// is fixed: every chunk carries its source path and category.
const (
	fieldID           = "id"
	fieldChunk        = "chunk"
	fieldRelativePath = "relative_path"
	fieldCategory     = "category"
	fieldVector       = "vector"
)

// MilvusRetriever embeds the query and searches a milvus collection.
type MilvusRetriever struct {
	cli        client.Client
	embedder   embedding.Provider
	collection string
	metricType entity.MetricType
}

// NewMilvusRetriever connects to milvus and wraps the collection.
func NewMilvusRetriever(cfg *config.VectorDBConfig, embedder embedding.Provider) (*MilvusRetriever, error) {
	port := cfg.Port
	if port == 0 {
		port = 19530
	}
	cli, err := client.NewClient(context.Background(), client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus failed, err: %w", err)
	}
	return &MilvusRetriever{
		cli:        cli,
		embedder:   embedder,
		collection: cfg.Collection,
		metricType: entity.MetricType(cfg.MetricType),
	}, nil
}

func (r *MilvusRetriever) Type() string { return "milvus" }

func (r *MilvusRetriever) Search(ctx context.Context, query string, opts schema.SearchOptions) ([]schema.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query failed, err: %w", err)
	}

	expr := ""
	if opts.Category != "" && opts.Category != config.CategoryAll {
		expr = fmt.Sprintf("%s == %s", fieldCategory, strconv.Quote(opts.Category))
	}

	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("build search param failed, err: %w", err)
	}
	results, err := r.cli.Search(ctx, r.collection, nil, expr,
		[]string{fieldChunk, fieldRelativePath, fieldCategory},
		[]entity.Vector{entity.FloatVector(vectors[0])},
		fieldVector, r.metricType, limit, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed, err: %w", err)
	}

	var out []schema.SearchResult
	for _, rs := range results {
		chunks := varcharColumn(rs.Fields, fieldChunk)
		paths := varcharColumn(rs.Fields, fieldRelativePath)
		categories := varcharColumn(rs.Fields, fieldCategory)
		for i := range rs.Scores {
			res := schema.SearchResult{Score: float64(rs.Scores[i])}
			if i < len(chunks) {
				res.Chunk = chunks[i]
			}
			if i < len(paths) {
				res.RelativePath = paths[i]
			}
			if i < len(categories) {
				res.Category = categories[i]
			}
			out = append(out, res)
		}
	}
	return out, nil
}

// InsertChunks embeds and writes ingest chunks into the collection.
func (r *MilvusRetriever) InsertChunks(ctx context.Context, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	paths := make([]string, len(chunks))
	categories := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		ids[i] = c.ID
		paths[i] = c.RelativePath
		categories[i] = c.Category
	}
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks failed, err: %w", err)
	}
	vecColumn := make([][]float32, len(vectors))
	copy(vecColumn, vectors)

	_, err = r.cli.Insert(ctx, r.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldChunk, texts),
		entity.NewColumnVarChar(fieldRelativePath, paths),
		entity.NewColumnVarChar(fieldCategory, categories),
		entity.NewColumnFloatVector(fieldVector, r.embedder.Dimensions(), vecColumn),
	)
	if err != nil {
		return fmt.Errorf("milvus insert failed, err: %w", err)
	}
	if err := r.cli.Flush(ctx, r.collection, false); err != nil {
		logger.Warnf("milvus flush failed: %v", err)
	}
	return nil
}

// Close releases the milvus connection.
func (r *MilvusRetriever) Close() error {
	if r.cli == nil {
		return nil
	}
	return r.cli.Close()
}

func varcharColumn(fields []entity.Column, name string) []string {
	for _, col := range fields {
		if !strings.EqualFold(col.Name(), name) {
			continue
		}
		if vc, ok := col.(*entity.ColumnVarChar); ok {
			return vc.Data()
		}
	}
	return nil
}
