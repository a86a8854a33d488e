package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"valuator/internal/copilot"
	"valuator/internal/domain"
	"valuator/internal/logger"
	"valuator/internal/metrics"
	"valuator/internal/ports"
	"valuator/internal/services/session"
)

var ErrEmptyMessage = errors.New("message is empty")

var errStale = errors.New("stale reply")

var tracer = otel.Tracer("valuator/internal/services/assistant")

// Reply reports what a Send call added to the transcript. When Pending is
// set the gateway answer will be appended later by a worker.
type Reply struct {
	Messages     []domain.ChatMessage     `json:"messages"`
	Conversation domain.ConversationState `json:"conversation"`
	Pending      bool                     `json:"pending"`
	Seq          uint64                   `json:"seq,omitempty"`
}

// Service runs chat commands through the interpreter and forwards the
// ones it defers to the AI gateway.
type Service struct {
	sessions *session.Service
	gateway  ports.Gateway
	queue    ports.JobQueue
	log      logger.Logger
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithQueue lets Send return before the gateway answers.
func WithQueue(q ports.JobQueue) Option { return func(s *Service) { s.queue = q } }

func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func New(sessions *session.Service, gw ports.Gateway, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		gateway:  gw,
		log:      log,
		timeout:  30 * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Send records the user's message and interprets it. A deferred command is
// answered inline when wait is set or no queue is configured, otherwise it
// is queued and the reply is marked pending.
func (s *Service) Send(ctx context.Context, sessionID, text string, wait bool) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	ctx, span := tracer.Start(ctx, "assistant.send")
	defer span.End()

	var (
		userMsg, botMsg domain.ChatMessage
		job             *ports.AssistJob
	)
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		userMsg = s.message(domain.RoleUser, text, nil)
		sess.AppendMessage(userMsg)

		step := sess.Conversation.Step
		result := copilot.Process(text, sess, sess.Conversation)
		sess.Conversation = result.State()

		switch r := result.(type) {
		case copilot.Handled:
			metrics.CopilotCommands.WithLabelValues("handled", string(step)).Inc()
			botMsg = s.message(domain.RoleAssistant, r.Reply, nil)
			sess.AppendMessage(botMsg)
			s.log.Debug("command handled", logger.Fields{
				"session": sess.ID, "command": r.Command, "step": step, "next": r.Next.Step,
			})
		case copilot.Deferred:
			metrics.CopilotCommands.WithLabelValues("deferred", string(step)).Inc()
			sess.DeferredSeq++
			job = &ports.AssistJob{
				SessionID: sess.ID,
				Seq:       sess.DeferredSeq,
				Request:   domain.GatewayRequest{Message: text, Context: sess.GatewayContext()},
			}
		}
		return nil
	})
	if err != nil {
		return Reply{}, err
	}

	out := Reply{Messages: []domain.ChatMessage{userMsg}, Conversation: sess.Conversation}
	if job == nil {
		out.Messages = append(out.Messages, botMsg)
		return out, nil
	}

	out.Seq = job.Seq
	span.SetAttributes(attribute.Int64("assistant.seq", int64(job.Seq)))
	if !wait && s.queue != nil {
		err := s.queue.Enqueue(ctx, *job)
		if err == nil {
			out.Pending = true
			return out, nil
		}
		s.log.WithError(err).Warn("enqueue failed, answering inline", logger.Fields{"session": sessionID})
	}

	msg, err := s.answer(ctx, *job)
	if err != nil {
		return Reply{}, err
	}
	if msg != nil {
		out.Messages = append(out.Messages, *msg)
	}
	return out, nil
}

// Process answers a queued job; it is the assist worker entry point.
func (s *Service) Process(ctx context.Context, job ports.AssistJob) error {
	_, err := s.answer(ctx, job)
	return err
}

// answer asks the gateway and appends its reply unless a newer deferred
// command has been issued for the session since job was created. Gateway
// failures become the fixed apology. A nil message means the reply was
// stale and dropped.
func (s *Service) answer(ctx context.Context, job ports.AssistJob) (*domain.ChatMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	ans, err := s.gateway.Ask(callCtx, job.Request)
	cancel()

	var msg domain.ChatMessage
	if err != nil {
		s.log.WithError(err).Warn("gateway ask failed", logger.Fields{
			"session": job.SessionID, "provider": s.gateway.Name(),
		})
		msg = s.message(domain.RoleAssistant, domain.UnreachableReply, nil)
	} else {
		msg = s.message(domain.RoleAssistant, ans.Text, ans.GroundingMetadata)
	}

	_, err = s.sessions.Update(ctx, job.SessionID, func(sess *session.Session) error {
		if job.Seq < sess.DeferredSeq {
			return errStale
		}
		sess.AppendMessage(msg)
		return nil
	})
	if errors.Is(err, errStale) {
		metrics.StaleReplies.Inc()
		s.log.Info("stale gateway reply dropped", logger.Fields{"session": job.SessionID, "seq": job.Seq})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Transcript returns the session's messages and conversation state.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]domain.ChatMessage, domain.ConversationState, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ConversationState{}, err
	}
	return sess.Messages, sess.Conversation, nil
}

func (s *Service) message(role domain.Role, content string, md *domain.GroundingMetadata) domain.ChatMessage {
	return domain.ChatMessage{
		ID:                uuid.NewString(),
		Role:              role,
		Content:           content,
		GroundingMetadata: md,
		CreatedAt:         s.now(),
	}
}
