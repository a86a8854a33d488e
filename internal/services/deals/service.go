package deals

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"valuator/internal/domain"
	"valuator/internal/logger"
	"valuator/internal/metrics"
	"valuator/internal/ports"
	"valuator/internal/services/session"
)

var (
	ErrEmptyName     = errors.New("deal name is empty")
	ErrDealNotFound  = errors.New("deal not found")
	ErrMalformedDeal = errors.New("malformed deal snapshot")
)

//go:embed deal.schema.json
var dealSchema []byte

var schema = gojsonschema.NewBytesLoader(dealSchema)

var tracer = otel.Tracer("valuator/internal/services/deals")

// Service saves session valuations as named deals and restores them.
type Service struct {
	repo     ports.DealRepository
	sessions *session.Service
	backend  string
	log      logger.Logger
	now      func() time.Time
}

func New(repo ports.DealRepository, sessions *session.Service, backend string, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		backend:  backend,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Save snapshots the session's valuation under name.
func (s *Service) Save(ctx context.Context, sessionID, name string) (domain.DealSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DealSummary{}, ErrEmptyName
	}
	ctx, span := tracer.Start(ctx, "deals.save")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.DealSummary{}, err
	}
	data, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return domain.DealSummary{}, fmt.Errorf("encode snapshot: %w", err)
	}

	summary := domain.DealSummary{
		ID:   uuid.NewString(),
		Name: name,
		Date: s.now().Format(time.DateOnly),
	}
	span.SetAttributes(attribute.String("deal.id", summary.ID))
	if err := s.repo.SaveDeal(ctx, ports.DealRecord{DealSummary: summary, Data: data}); err != nil {
		return domain.DealSummary{}, fmt.Errorf("save deal: %w", err)
	}

	metrics.DealsSaved.WithLabelValues(s.backend).Inc()
	s.log.Info("deal saved", logger.Fields{"session": sessionID, "deal": summary.ID, "name": name})
	return summary, nil
}

// Load replaces the session's valuation with the deal's snapshot. Any
// gut-check result on the session is cleared.
func (s *Service) Load(ctx context.Context, sessionID, dealID string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "deals.load")
	defer span.End()
	span.SetAttributes(attribute.String("deal.id", dealID))

	rec, err := s.repo.GetDeal(ctx, dealID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDealNotFound, dealID)
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}

	data, err := Decode(rec.Data)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Restore(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("deal loaded", logger.Fields{"session": sessionID, "deal": dealID})
	return sess, nil
}

func (s *Service) List(ctx context.Context) ([]domain.DealSummary, error) {
	list, err := s.repo.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	if list == nil {
		list = []domain.DealSummary{}
	}
	return list, nil
}

// Decode validates a stored snapshot against the deal schema and decodes
// it.
func Decode(raw []byte) (domain.DealData, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return domain.DealData{}, fmt.Errorf("%w: %v", ErrMalformedDeal, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return domain.DealData{}, fmt.Errorf("%w: %s", ErrMalformedDeal, strings.Join(errs, "; "))
	}

	var data domain.DealData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.DealData{}, fmt.Errorf("%w: %v", ErrMalformedDeal, err)
	}
	return data, nil
}
