package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// CandidateIndex keeps one resume embedding per interview so past
// candidates for comparable roles can be surfaced.
type CandidateIndex interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, interviewID uuid.UUID, username, jobSnippet string, fitScore float64, embedding []float32) error
	FindSimilar(ctx context.Context, embedding []float32, excludeID uuid.UUID, limit int) ([]CandidateMatch, error)
}

type CandidateMatch struct {
	InterviewID string
	Username    string
	JobSnippet  string
	Score       float32
}

type candidateIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewCandidateIndex(urlStr, apiKey, collectionName string) (CandidateIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // embedding model output size
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *candidateIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexCandidate implements CandidateIndex.
func (q *candidateIndex) IndexCandidate(ctx context.Context, interviewID uuid.UUID, username, jobSnippet string, fitScore float64, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(interviewID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"interview_id": interviewID.String(),
			"username":     username,
			"job_snippet":  jobSnippet,
			"fit_score":    fitScore,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	return nil
}

// FindSimilar implements CandidateIndex.
func (q *candidateIndex) FindSimilar(ctx context.Context, embedding []float32, excludeID uuid.UUID, limit int) ([]CandidateMatch, error) {
	// Fetch one extra so the interview itself can be dropped from its own
	// results.
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit + 1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []CandidateMatch
	for _, point := range searchResult {
		payload := point.Payload

		match := CandidateMatch{Score: point.Score}

		if id, ok := payload["interview_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.InterviewID = val.StringValue
			}
		}

		if match.InterviewID == excludeID.String() {
			continue
		}

		if username, ok := payload["username"]; ok {
			if val, ok := username.GetKind().(*qdrant.Value_StringValue); ok {
				match.Username = val.StringValue
			}
		}

		if snippet, ok := payload["job_snippet"]; ok {
			if val, ok := snippet.GetKind().(*qdrant.Value_StringValue); ok {
				match.JobSnippet = val.StringValue
			}
		}

		matches = append(matches, match)
		if len(matches) == limit {
			break
		}
	}

	return matches, nil
}
