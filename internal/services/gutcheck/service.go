package gutcheck

import (
	"context"
	"errors"
	"strings"
	"time"

	"valuator/internal/domain"
	"valuator/internal/logger"
	"valuator/internal/ports"
	"valuator/internal/services/session"
)

var ErrEmptyNarrative = errors.New("narrative is empty")

// Service asks the gateway for a qualitative adjustment to the
// triangulated valuation.
type Service struct {
	sessions *session.Service
	gateway  ports.Gateway
	log      logger.Logger
	timeout  time.Duration
}

func New(sessions *session.Service, gw ports.Gateway, log logger.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{sessions: sessions, gateway: gw, log: log, timeout: timeout}
}

// Analyze stores the gateway's verdict on the session and returns it. When
// the gateway fails the apology verdict is returned and the session keeps
// whatever result it had.
func (s *Service) Analyze(ctx context.Context, sessionID, narrative string) (domain.GutCheckResult, error) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return domain.GutCheckResult{}, ErrEmptyNarrative
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.GutCheckResult{}, err
	}
	req := domain.GatewayRequest{
		Message: narrative,
		Context: sess.GatewayContext(),
		Mode:    domain.ModeGutCheck,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	res, err := s.gateway.GutCheck(callCtx, req)
	cancel()
	if err != nil {
		s.log.WithError(err).Warn("gut check failed", logger.Fields{
			"session": sessionID, "provider": s.gateway.Name(),
		})
		return domain.GutCheckResult{Reasoning: domain.UnreachableReply}, nil
	}

	_, err = s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Valuation.GutCheck = &res
		return nil
	})
	if err != nil {
		return domain.GutCheckResult{}, err
	}
	s.log.Info("gut check stored", logger.Fields{
		"session": sessionID, "adjustment": res.SuggestedAdjustment, "conviction": res.ConvictionScore,
	})
	return res, nil
}
