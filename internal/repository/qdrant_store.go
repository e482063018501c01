package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// QdrantConfig holds configuration for the Qdrant connection.
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string // Qdrant Cloud API Key (enables TLS automatically)
	UseTLS bool   // Explicitly enable TLS without API Key
}

// apiKeyInterceptor creates a unary interceptor that adds the API key to metadata.
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// QdrantStore implements VectorStore over the Qdrant gRPC API.
//
// Filtering on this backend is limited to keyword/flag matches and a
// minimum-year range: genres are stored as one-hot boolean flags
// (genre_<name>: true) and max_year is not enforced store-side.
type QdrantStore struct {
	conn          *grpc.ClientConn
	pointsClient  pb.PointsClient
	collectClient pb.CollectionsClient
}

// NewQdrantStore connects to Qdrant.
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API Key).
func NewQdrantStore(cfg *QdrantConfig) (*QdrantStore, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var opts []grpc.DialOption

	// TLS is enabled if: APIKey is set OR UseTLS is explicitly true
	useTLS := cfg.UseTLS || cfg.APIKey != ""

	if useTLS {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
		creds := credentials.NewTLS(tlsConfig)
		opts = append(opts, grpc.WithTransportCredentials(creds))

		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to qdrant: %v", domain.ErrConnection, err)
	}

	return &QdrantStore{
		conn:          conn,
		pointsClient:  pb.NewPointsClient(conn),
		collectClient: pb.NewCollectionsClient(conn),
	}, nil
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist and verifies
// the vector dimension when it does.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, dimensions int) error {
	info, err := s.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: collection,
	})
	if err == nil {
		if size, ok := collectionVectorSize(info.GetResult()); ok {
			if size != uint64(dimensions) {
				return fmt.Errorf("%w: collection %s has vector size %d, expected %d",
					domain.ErrConfiguration, collection, size, dimensions)
			}
		}
		return nil // Collection exists
	}

	_, err = s.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 optionalUint64(16),
			EfConstruct:       optionalUint64(128),
			FullScanThreshold: optionalUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create collection %s: %v", domain.ErrConnection, collection, err)
	}

	return nil
}

func optionalUint64(v uint64) *uint64 {
	return &v
}

func collectionVectorSize(info *pb.CollectionInfo) (uint64, bool) {
	if info == nil {
		return 0, false
	}

	config := info.GetConfig()
	if config == nil {
		return 0, false
	}

	params := config.GetParams()
	if params == nil {
		return 0, false
	}

	vectors := params.GetVectorsConfig()
	if vectors == nil {
		return 0, false
	}

	if single := vectors.GetParams(); single != nil {
		if size := single.GetSize(); size > 0 {
			return size, true
		}
	}

	if paramsMap := vectors.GetParamsMap(); paramsMap != nil {
		for _, vectorParams := range paramsMap.GetMap() {
			if vectorParams == nil {
				continue
			}
			if size := vectorParams.GetSize(); size > 0 {
				return size, true
			}
		}
	}

	return 0, false
}

// genreFlagKey is the payload key for a one-hot genre flag.
func genreFlagKey(genre string) string {
	return "genre_" + genre
}

// Upsert inserts or replaces one indexed chunk record.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, record *domain.IndexedRecord) error {
	uid, err := uuid.Parse(record.ID)
	if err != nil {
		return fmt.Errorf("%w: invalid point ID: %v", domain.ErrFilterEncoding, err)
	}

	payload := map[string]*pb.Value{
		"movie_id":    {Kind: &pb.Value_StringValue{StringValue: record.Metadata.MovieID}},
		"title":       {Kind: &pb.Value_StringValue{StringValue: record.Metadata.Title}},
		"year":        {Kind: &pb.Value_IntegerValue{IntegerValue: int64(record.Metadata.Year)}},
		"description": {Kind: &pb.Value_StringValue{StringValue: record.Metadata.Description}},
		"genres":      genresToValue(record.Metadata.Genres),
	}
	for _, genre := range record.Metadata.Genres {
		payload[genreFlagKey(genre)] = &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: true}}
	}

	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: uid.String(),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: record.Embedding,
					},
				},
			},
			Payload: payload,
		},
	}

	_, err = s.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to upsert point: %v", domain.ErrConnection, err)
	}

	return nil
}

func genresToValue(genres []string) *pb.Value {
	values := make([]*pb.Value, len(genres))
	for i, genre := range genres {
		values[i] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: genre}}
	}
	return &pb.Value{
		Kind: &pb.Value_ListValue{
			ListValue: &pb.ListValue{Values: values},
		},
	}
}

// buildQdrantFilter translates a query filter into Qdrant conditions. A genre
// becomes a boolean match on its one-hot flag; a minimum year becomes a gte
// range. Max year is not expressible with flag filters and is left to the
// relational backend.
func buildQdrantFilter(filter *domain.QueryFilter) *pb.Filter {
	if filter == nil {
		return nil
	}

	var conditions []*pb.Condition

	if filter.Genre != "" {
		conditions = append(conditions, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: genreFlagKey(filter.Genre),
					Match: &pb.Match{
						MatchValue: &pb.Match_Boolean{Boolean: true},
					},
				},
			},
		})
	}

	if filter.MinYear > domain.DefaultMinYear {
		gte := float64(filter.MinYear)
		conditions = append(conditions, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: "year",
					Range: &pb.Range{
						Gte: &gte,
					},
				},
			},
		})
	}

	if len(conditions) == 0 {
		return nil
	}

	return &pb.Filter{
		Must: conditions,
	}
}

// Search performs a vector similarity search. Payload return is disabled on
// the search call itself; metadata is fetched per hit afterwards.
func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, filter *domain.QueryFilter, k int, minScore float32) ([]domain.SearchResult, error) {
	req := &pb.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(k),
		Filter:         buildQdrantFilter(filter),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: false},
		},
	}

	resp, err := s.pointsClient.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search collection %s: %v", domain.ErrConnection, collection, err)
	}

	var results []domain.SearchResult
	for _, scored := range resp.Result {
		if scored.Score <= minScore {
			continue
		}

		meta, err := s.getMetadata(ctx, collection, scored.Id.GetUuid())
		if err != nil {
			return nil, err
		}

		results = append(results, domain.SearchResult{
			MovieID:     meta.MovieID,
			Title:       meta.Title,
			Year:        meta.Year,
			Genres:      meta.Genres,
			Description: meta.Description,
			Similarity:  scored.Score,
		})
	}

	return results, nil
}

// getMetadata fetches the stored payload for one point.
func (s *QdrantStore) getMetadata(ctx context.Context, collection, pointID string) (*domain.RecordMetadata, error) {
	resp, err := s.pointsClient.Get(ctx, &pb.GetPoints{
		CollectionName: collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: pointID}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch point %s: %v", domain.ErrConnection, pointID, err)
	}
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("point %s not found in collection %s", pointID, collection)
	}

	return parseRecordMetadata(resp.Result[0].Payload), nil
}

func parseRecordMetadata(payload map[string]*pb.Value) *domain.RecordMetadata {
	meta := &domain.RecordMetadata{}
	if payload == nil {
		return meta
	}

	if v, ok := payload["movie_id"]; ok {
		meta.MovieID = v.GetStringValue()
	}
	if v, ok := payload["title"]; ok {
		meta.Title = v.GetStringValue()
	}
	if v, ok := payload["year"]; ok {
		meta.Year = int(v.GetIntegerValue())
	}
	if v, ok := payload["description"]; ok {
		meta.Description = v.GetStringValue()
	}
	if v, ok := payload["genres"]; ok {
		if list := v.GetListValue(); list != nil {
			for _, item := range list.Values {
				meta.Genres = append(meta.Genres, item.GetStringValue())
			}
		}
	}

	return meta
}

// Count returns the number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context, collection string) (uint64, error) {
	exact := true
	resp, err := s.pointsClient.Count(ctx, &pb.CountPoints{
		CollectionName: collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count collection %s: %v", domain.ErrConnection, collection, err)
	}
	return resp.GetResult().GetCount(), nil
}

// Clear removes all points from the collection by filter-matching everything.
func (s *QdrantStore) Clear(ctx context.Context, collection string) error {
	_, err := s.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to clear collection %s: %v", domain.ErrConnection, collection, err)
	}
	return nil
}
